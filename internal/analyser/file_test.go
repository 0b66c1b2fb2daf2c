package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/plugins"
	"github.com/suadelabs/rattr/internal/pyast"
)

func TestFileAnalyser_AnalysesTopLevelFunctionDef(t *testing.T) {
	sink := diagnostic.NewSink()
	fa := NewFileAnalyser("t.py", "/proj", sink, plugins.NewRegistry(), nil)

	module := &pyast.Module{
		Body: []pyast.Stmt{
			&pyast.FunctionDef{
				Name: "greet",
				Args: pyast.Arguments{Args: []pyast.Arg{{Arg: "name"}}},
				Body: []pyast.Stmt{&pyast.Return{Value: name("name", pyast.Load)}},
			},
		},
	}

	out, _, err := fa.Analyse(module)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	_, fnIr, ok := out.Get("greet")
	require.True(t, ok)
	assert.Contains(t, fnIr.Gets, "name")
}

func TestFileAnalyser_FunctionDefNestedInIfIsStillAnalysed(t *testing.T) {
	sink := diagnostic.NewSink()
	fa := NewFileAnalyser("t.py", "/proj", sink, plugins.NewRegistry(), nil)

	module := &pyast.Module{
		Body: []pyast.Stmt{
			&pyast.If{
				Body: []pyast.Stmt{
					&pyast.FunctionDef{Name: "conditional", Body: []pyast.Stmt{&pyast.Pass{}}},
				},
			},
		},
	}

	out, _, err := fa.Analyse(module)
	require.NoError(t, err)
	_, _, ok := out.Get("conditional")
	assert.True(t, ok)
}

func TestFileAnalyser_RattrIgnoreDecoratorSkipsAnalysis(t *testing.T) {
	sink := diagnostic.NewSink()
	fa := NewFileAnalyser("t.py", "/proj", sink, plugins.NewRegistry(), nil)

	module := &pyast.Module{
		Body: []pyast.Stmt{
			&pyast.FunctionDef{
				Name:       "skipped",
				Decorators: []pyast.Decorator{{Name: "rattr_ignore"}},
				Body:       []pyast.Stmt{&pyast.Return{Value: name("undefined_thing", pyast.Load)}},
			},
		},
	}

	out, _, err := fa.Analyse(module)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Empty(t, sink.Diagnostics(), "an ignored function body must not even be walked for diagnostics")
}

func TestFileAnalyser_ClassDefEntriesAreMergedIntoFileIr(t *testing.T) {
	sink := diagnostic.NewSink()
	fa := NewFileAnalyser("t.py", "/proj", sink, plugins.NewRegistry(), nil)

	module := &pyast.Module{
		Body: []pyast.Stmt{
			&pyast.ClassDef{
				Name: "Widget",
				Body: []pyast.Stmt{
					&pyast.FunctionDef{
						Name: "__init__",
						Args: pyast.Arguments{Args: []pyast.Arg{{Arg: "self"}}},
						Body: []pyast.Stmt{&pyast.Pass{}},
					},
				},
			},
		},
	}

	out, _, err := fa.Analyse(module)
	require.NoError(t, err)
	_, _, ok := out.Get("Widget")
	assert.True(t, ok)
}
