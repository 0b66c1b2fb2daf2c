package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/plugins"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/symbol"
)

func newEnv() *Env {
	return &Env{File: "t.py", ProjectRoot: "/proj", Sink: diagnostic.NewSink(), Plugins: plugins.NewRegistry()}
}

func name(id string, ctx pyast.ExprContext) *pyast.Name {
	return &pyast.Name{Id: id, Ctx: ctx}
}

func attr(value pyast.Expr, attr string, ctx pyast.ExprContext) *pyast.Attribute {
	return &pyast.Attribute{Value: value, Attr: attr, Ctx: ctx}
}

func TestFunctionAnalyser_SimpleGetOnParameter(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "x"}}}
	body := []pyast.Stmt{&pyast.Return{Value: name("x", pyast.Load)}}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Gets, "x")
	assert.Empty(t, result.Sets)
}

func TestFunctionAnalyser_AttributeGetOnParameter(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "obj"}}}
	body := []pyast.Stmt{
		&pyast.ExprStmt{Value: attr(name("obj", pyast.Load), "field", pyast.Load)},
	}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Gets, "obj.field")
}

func TestFunctionAnalyser_AssignmentRecordsSet(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{}
	body := []pyast.Stmt{
		&pyast.Assign{
			Targets: []pyast.Expr{name("y", pyast.Store)},
			Value:   &pyast.Constant{Kind: "int", Value: "1"},
		},
	}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Sets, "y")
	assert.Empty(t, result.Gets)
}

func TestFunctionAnalyser_AttributeSetRecordsSetOfFullName(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "obj"}}}
	body := []pyast.Stmt{
		&pyast.Assign{
			Targets: []pyast.Expr{attr(name("obj", pyast.Load), "field", pyast.Store)},
			Value:   &pyast.Constant{Kind: "int", Value: "1"},
		},
	}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Sets, "obj.field")
}

func TestFunctionAnalyser_DeleteRecordsDelAndForgetsBinding(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "x"}}}
	body := []pyast.Stmt{
		&pyast.Delete{Targets: []pyast.Expr{name("x", pyast.Del)}},
		&pyast.Return{Value: name("x", pyast.Load)},
	}

	result, ctx, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Dels, "x")
	assert.False(t, ctx.Contains("x"), "deleted name must no longer be visible")
	assert.NotEmpty(t, env.Sink.Diagnostics(), "using x after delete should warn it's potentially undefined")
}

func TestFunctionAnalyser_UndefinedNameWarns(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	body := []pyast.Stmt{&pyast.Return{Value: name("mystery", pyast.Load)}}
	_, _, err := a.Analyse(pyast.Arguments{}, body)
	require.NoError(t, err)

	require.Len(t, env.Sink.Diagnostics(), 1)
	assert.Equal(t, diagnostic.Warning, env.Sink.Diagnostics()[0].Severity)
}

func TestFunctionAnalyser_CallRecordsCallSiteWithArgs(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Func{Name: "helper", Interface: symbol.CallInterface{Args: []string{"value"}}})
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "x"}}}
	body := []pyast.Stmt{
		&pyast.ExprStmt{Value: &pyast.Call{
			Func: name("helper", pyast.Load),
			Args: []pyast.Expr{name("x", pyast.Load)},
		}},
	}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	require.Contains(t, result.Calls, "helper()")
	call, ok := result.Calls["helper()"].(symbol.Call)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, call.Args.Args)
	assert.Contains(t, result.Gets, "x", "the call's argument is also read in the caller's own scope")
}

func TestFunctionAnalyser_StandaloneClassInstantiationWarnsAndRecordsSelfBoundCall(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Class{Name: "C", Interface: symbol.CallInterface{Args: []string{"self", "x"}}})
	a := NewFunctionAnalyser(env, root)

	body := []pyast.Stmt{
		&pyast.ExprStmt{Value: &pyast.Call{
			Func: name("C", pyast.Load),
			Args: []pyast.Expr{name("y", pyast.Load)},
		}},
	}

	result, _, err := a.Analyse(pyast.Arguments{Args: []pyast.Arg{{Arg: "y"}}}, body)
	require.NoError(t, err)

	require.Contains(t, result.Calls, "C()")
	call, ok := result.Calls["C()"].(symbol.Call)
	require.True(t, ok)
	assert.Equal(t, []string{"@C", "y"}, call.Args.Args, "self is synthesized as the @ClassName sentinel")

	require.Len(t, env.Sink.Diagnostics(), 1)
	assert.Contains(t, env.Sink.Diagnostics()[0].Message, "initialised but not stored")
}

func TestFunctionAnalyser_ClassInitAssignmentBindsSelfToLHS(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	root.Add(symbol.Class{Name: "C", Interface: symbol.CallInterface{Args: []string{"self", "x"}}})
	a := NewFunctionAnalyser(env, root)

	body := []pyast.Stmt{
		&pyast.Assign{
			Targets: []pyast.Expr{name("obj", pyast.Store)},
			Value: &pyast.Call{
				Func: name("C", pyast.Load),
				Args: []pyast.Expr{name("y", pyast.Load)},
			},
		},
	}

	result, _, err := a.Analyse(pyast.Arguments{Args: []pyast.Arg{{Arg: "y"}}}, body)
	require.NoError(t, err)

	require.Contains(t, result.Calls, "C()")
	call, ok := result.Calls["C()"].(symbol.Call)
	require.True(t, ok)
	assert.Equal(t, []string{"obj", "y"}, call.Args.Args, "self is bound to the LHS name, not the @ClassName sentinel")

	assert.Contains(t, result.Sets, "obj")
	assert.Contains(t, result.Gets, "y", "the call's own argument is still visited")
	for _, diag := range env.Sink.Diagnostics() {
		assert.NotContains(t, diag.Message, "initialised but not stored", "a stored instantiation is not unstored")
	}
}

func TestFunctionAnalyser_GlobalStatementIsFatal(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	body := []pyast.Stmt{&pyast.Global{Names: []string{"x"}}}
	_, _, err := a.Analyse(pyast.Arguments{}, body)
	assert.Error(t, err)
}

func TestFunctionAnalyser_NestedFunctionDefRecordsErrorButStillCountsEnclosingEffects(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "outer"}}}
	body := []pyast.Stmt{
		&pyast.FunctionDef{
			Name: "inner",
			Body: []pyast.Stmt{&pyast.ExprStmt{Value: name("outer", pyast.Load)}},
		},
	}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Gets, "outer", "the nested def's body still counts against the enclosing function")
	require.Len(t, env.Sink.Diagnostics(), 1)
	assert.Equal(t, diagnostic.Error, env.Sink.Diagnostics()[0].Severity)
}

func TestFunctionAnalyser_NestedClassDefIsErrorNotFatal(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	body := []pyast.Stmt{&pyast.ClassDef{Name: "Inner"}}
	_, _, err := a.Analyse(pyast.Arguments{}, body)
	require.NoError(t, err)
	require.Len(t, env.Sink.Diagnostics(), 1)
	assert.Equal(t, diagnostic.Error, env.Sink.Diagnostics()[0].Severity)
}

func TestFunctionAnalyser_ForLoopTargetIsSet(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "items"}}}
	body := []pyast.Stmt{
		&pyast.For{
			Target: name("item", pyast.Store),
			Iter:   name("items", pyast.Load),
			Body:   []pyast.Stmt{&pyast.ExprStmt{Value: name("item", pyast.Load)}},
		},
	}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Sets, "item")
	assert.Contains(t, result.Gets, "items")
}

func TestFunctionAnalyser_ComprehensionTargetScopedToComprehension(t *testing.T) {
	env := newEnv()
	root := rcontext.New("t.py")
	a := NewFunctionAnalyser(env, root)

	args := pyast.Arguments{Args: []pyast.Arg{{Arg: "items"}}}
	body := []pyast.Stmt{
		&pyast.Return{Value: &pyast.ListComp{
			Elt: name("x", pyast.Load),
			Generators: []pyast.Comprehension{
				{Target: name("x", pyast.Store), Iter: name("items", pyast.Load)},
			},
		}},
	}

	result, _, err := a.Analyse(args, body)
	require.NoError(t, err)
	assert.Contains(t, result.Sets, "x")
	assert.Contains(t, result.Gets, "items")
	for _, diag := range env.Sink.Diagnostics() {
		assert.NotContains(t, diag.Message, "potentially undefined", "comprehension target must be visible to the yielded expression")
	}
}
