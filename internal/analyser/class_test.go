package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/symbol"
)

func TestClassAnalyser_InitMethodWidensClassInterface(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Class{Name: "Widget"})

	cls := &pyast.ClassDef{
		Name: "Widget",
		Body: []pyast.Stmt{
			&pyast.FunctionDef{
				Name: "__init__",
				Args: pyast.Arguments{Args: []pyast.Arg{{Arg: "self"}, {Arg: "value"}}},
				Body: []pyast.Stmt{
					&pyast.Assign{
						Targets: []pyast.Expr{attr(name("self", pyast.Load), "value", pyast.Store)},
						Value:   name("value", pyast.Load),
					},
				},
			},
		},
	}

	a := NewClassAnalyser(env, root, cls)
	out, err := a.Analyse()
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	sym, fnIr, ok := out.Get("Widget")
	require.True(t, ok)
	widget := sym.(symbol.Class)
	assert.Equal(t, []string{"self", "value"}, widget.Interface.Args)
	assert.Contains(t, fnIr.Sets, "self.value")
}

func TestClassAnalyser_StaticMethodRegisteredAsQualifiedFunc(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Class{Name: "Widget"})

	cls := &pyast.ClassDef{
		Name: "Widget",
		Body: []pyast.Stmt{
			&pyast.FunctionDef{
				Name:       "make",
				Args:       pyast.Arguments{},
				Decorators: []pyast.Decorator{{Name: "staticmethod"}},
				Body:       []pyast.Stmt{&pyast.Return{Value: &pyast.Constant{Kind: "int", Value: "1"}}},
			},
		},
	}

	a := NewClassAnalyser(env, root, cls)
	out, err := a.Analyse()
	require.NoError(t, err)

	_, _, ok := out.Get("Widget.make")
	assert.True(t, ok)

	fn, ok := root.GetFuncOrError("Widget.make")
	require.True(t, ok)
	assert.Equal(t, "Widget.make", fn.Name)
}

func TestClassAnalyser_NamedtupleWithNoInitSynthesizesFromAttrs(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Class{Name: "Point"})

	cls := &pyast.ClassDef{
		Name:  "Point",
		Bases: []pyast.Expr{name("NamedTuple", pyast.Load)},
		Body: []pyast.Stmt{
			&pyast.AnnAssign{Target: name("x", pyast.Store), Value: nil},
			&pyast.Assign{Targets: []pyast.Expr{name("y", pyast.Store)}, Value: &pyast.Constant{Kind: "int", Value: "0"}},
		},
	}

	a := NewClassAnalyser(env, root, cls)
	out, err := a.Analyse()
	require.NoError(t, err)

	sym, _, ok := out.Get("Point")
	require.True(t, ok)
	point := sym.(symbol.Class)
	assert.Contains(t, point.Interface.Args, "self")
	assert.Contains(t, point.Interface.Args, "y")
}

func TestClassAnalyser_MultipleInitMethodsIsNonFatalError(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Class{Name: "Widget"})

	mkInit := func() *pyast.FunctionDef {
		return &pyast.FunctionDef{Name: "__init__", Args: pyast.Arguments{Args: []pyast.Arg{{Arg: "self"}}}}
	}
	cls := &pyast.ClassDef{
		Name: "Widget",
		Body: []pyast.Stmt{mkInit(), mkInit()},
	}

	a := NewClassAnalyser(env, root, cls)
	_, err := a.Analyse()
	require.NoError(t, err)
	require.NotEmpty(t, env.Sink.Diagnostics())
}

func TestClassAnalyser_AsyncInitIsFatal(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Class{Name: "Widget"})

	cls := &pyast.ClassDef{
		Name: "Widget",
		Body: []pyast.Stmt{
			&pyast.FunctionDef{Name: "__init__", IsAsync: true, Args: pyast.Arguments{Args: []pyast.Arg{{Arg: "self"}}}},
		},
	}

	a := NewClassAnalyser(env, root, cls)
	_, err := a.Analyse()
	assert.Error(t, err)
}
