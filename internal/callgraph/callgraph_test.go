package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/symbol"
)

func TestConstructSwap_PositionalBinding(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{Args: []string{"a", "b"}}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"x", "y"}, Kwargs: map[string]string{}}}

	swaps, err := ConstructSwap(sink, fn, call)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "x", "b": "y"}, swaps)
}

func TestConstructSwap_KeywordBindingForRemainingParams(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{Args: []string{"a", "b", "c"}}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"x"}, Kwargs: map[string]string{"c": "z", "b": "y"}}}

	swaps, err := ConstructSwap(sink, fn, call)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "x", "b": "y", "c": "z"}, swaps)
}

func TestConstructSwap_PositionalAndNamedClashIsFatal(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{Args: []string{"a", "b"}}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"x", "y"}, Kwargs: map[string]string{"a": "z"}}}

	_, err := ConstructSwap(sink, fn, call)
	require.Error(t, err)

	var fatal *diagnostic.FatalError
	assert.ErrorAs(t, err, &fatal)
}

func TestConstructSwap_UnmatchedKwargIsNonFatal(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{Args: []string{"a"}}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"x"}, Kwargs: map[string]string{"bogus": "q"}}}

	swaps, err := ConstructSwap(sink, fn, call)
	require.NoError(t, err, "unmatched kwargs are an error on the sink, not a fatal return")
	assert.Equal(t, map[string]string{"a": "x"}, swaps)
	assert.Len(t, sink.Diagnostics(), 1)
}

func TestConstructSwap_ExtraPositionalArgsWithoutVarargIsAnError(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{Args: []string{"a"}}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"x", "y", "z"}, Kwargs: map[string]string{}}}

	swaps, err := ConstructSwap(sink, fn, call)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "x"}, swaps)
	assert.Len(t, sink.Diagnostics(), 1, "leftover positional args with no vararg collector must be reported")
}

func TestConstructSwap_VarargBindsRemainingPositionalArgsToTupleSentinel(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{Args: []string{"a"}, Vararg: "args"}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"1", "2", "3"}, Kwargs: map[string]string{}}}

	swaps, err := ConstructSwap(sink, fn, call)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "args": "@Tuple"}, swaps)
	assert.Empty(t, sink.Diagnostics(), "a vararg collector absorbing the rest of the positional args is not an error")
}

func TestConstructSwap_KwargBindsUnmatchedKeywordArgsToDictSentinel(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{Args: []string{"a"}, Kwarg: "kwargs"}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"x"}, Kwargs: map[string]string{"extra": "q"}}}

	swaps, err := ConstructSwap(sink, fn, call)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "x", "kwargs": "@Dict"}, swaps)
	assert.Empty(t, sink.Diagnostics(), "a kwarg collector absorbing an unmatched keyword argument is not an error")
}

func TestConstructSwap_PosOnlyArgsRunningOutOfPositionalArgsReturnsPartialMap(t *testing.T) {
	sink := diagnostic.NewSink()
	fn := symbol.Func{Name: "f", Interface: symbol.CallInterface{PosOnlyArgs: []string{"a", "b"}}}
	call := symbol.Call{Name: "f()", Args: symbol.CallArguments{Args: []string{"x"}, Kwargs: map[string]string{}}}

	swaps, err := ConstructSwap(sink, fn, call)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "x"}, swaps)
	assert.Len(t, sink.Diagnostics(), 1)
}

func TestGetCalleeTarget_UnresolvedCallHasNoTarget(t *testing.T) {
	sink := diagnostic.NewSink()
	call := symbol.Call{Name: "print()"}

	_, _, ok := GetCalleeTarget(sink, call, ir.NewFileIr(), ImportsIr{}, "/proj", nil)
	assert.False(t, ok)
}

func TestGetCalleeTarget_BuiltinTargetNeverFollowed(t *testing.T) {
	sink := diagnostic.NewSink()
	call := symbol.Call{Name: "print()", Target: symbol.NewBuiltin("print")}

	_, _, ok := GetCalleeTarget(sink, call, ir.NewFileIr(), ImportsIr{}, "/proj", nil)
	assert.False(t, ok)
}

func TestGetCalleeTarget_ResolvesFuncInSameFile(t *testing.T) {
	sink := diagnostic.NewSink()
	callee := symbol.Func{Name: "helper"}
	calleeIr := ir.New()
	calleeIr.AddGet(symbol.NewName("shared", symbol.Location{}))

	fileIr := ir.NewFileIr()
	fileIr.Set(callee, calleeIr)

	call := symbol.Call{Name: "helper()", Target: callee}

	sym, got, ok := GetCalleeTarget(sink, call, fileIr, ImportsIr{}, "/proj", nil)
	require.True(t, ok)
	assert.Equal(t, "helper", sym.SymbolName())
	assert.Same(t, calleeIr, got)
}

func TestSimplifyFileIr_InlinesResolvedCallWithParameterSwap(t *testing.T) {
	sink := diagnostic.NewSink()

	helper := symbol.Func{Name: "helper", Interface: symbol.CallInterface{Args: []string{"value"}}}
	helperIr := ir.New()
	helperIr.AddGet(symbol.NewNameWithBasename("value.field", "value", symbol.Location{}))

	caller := symbol.Func{Name: "caller", Interface: symbol.CallInterface{Args: []string{"item"}}}
	callerIr := ir.New()
	callerIr.AddCall(symbol.Call{
		Name:   "helper()",
		Target: helper,
		Args:   symbol.CallArguments{Args: []string{"item"}, Kwargs: map[string]string{}},
	})

	fileIr := ir.NewFileIr()
	fileIr.Set(helper, helperIr)
	fileIr.Set(caller, callerIr)

	simplified := SimplifyFileIr(sink, fileIr, ImportsIr{}, "/proj")

	_, callerSimplified, ok := simplified.Get("caller")
	require.True(t, ok)
	assert.Contains(t, callerSimplified.Gets, "item.field", "helper's get on its own parameter must be unbound to the caller's argument name")

	_, helperOriginal, _ := fileIr.Get("helper")
	assert.Contains(t, helperOriginal.Gets, "value.field", "simplification must not mutate the input FileIr")
}

func TestSimplifyFileIr_UnresolvedCallPassesThroughUnchanged(t *testing.T) {
	sink := diagnostic.NewSink()

	fn := symbol.Func{Name: "f"}
	fnIr := ir.New()
	fnIr.AddCall(symbol.Call{Name: "print()"})
	fnIr.AddGet(symbol.NewName("x", symbol.Location{}))

	fileIr := ir.NewFileIr()
	fileIr.Set(fn, fnIr)

	simplified := SimplifyFileIr(sink, fileIr, ImportsIr{}, "/proj")

	_, got, ok := simplified.Get("f")
	require.True(t, ok)
	assert.Contains(t, got.Calls, "print()")
	assert.Contains(t, got.Gets, "x")
}

func TestSimplifyFileIr_BreaksDirectRecursionCycle(t *testing.T) {
	sink := diagnostic.NewSink()

	recursive := symbol.Func{Name: "recurse"}
	recursiveIr := ir.New()
	recursiveIr.AddGet(symbol.NewName("x", symbol.Location{}))
	recursiveIr.AddCall(symbol.Call{Name: "recurse()", Target: recursive, Location: symbol.Location{File: "a.py", LineNo: 1}})

	fileIr := ir.NewFileIr()
	fileIr.Set(recursive, recursiveIr)

	node := NewNode(sink, recursive, recursiveIr, fileIr, ImportsIr{}, "/proj")
	assert.NotPanics(t, func() { node.Populate(nil) }, "populating a self-recursive call must terminate")
}
