package rcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/symbol"
)

func TestContext_AddDoesNotShadowAncestor(t *testing.T) {
	root := New("t.py")
	root.Add(symbol.Func{Name: "f"})

	child := root.Child()
	child.Add(symbol.NewName("f", symbol.Location{}))

	assert.False(t, child.Declares("f"), "Add must not insert a binding already visible via an ancestor")
	sym, ok := child.Get("f")
	require.True(t, ok)
	_, isFunc := sym.(symbol.Func)
	assert.True(t, isFunc, "the ancestor's binding must still be the one resolved")
}

func TestContext_AddArgumentAlwaysShadows(t *testing.T) {
	root := New("t.py")
	root.Add(symbol.Func{Name: "f"})

	child := root.Child()
	child.AddArgument(symbol.NewName("f", symbol.Location{}))

	assert.True(t, child.Declares("f"))
	sym, _ := child.Get("f")
	_, isName := sym.(symbol.Name)
	assert.True(t, isName, "AddArgument must shadow the ancestor binding")
}

func TestContext_ContainsSearchesAncestors(t *testing.T) {
	root := New("t.py")
	root.Add(symbol.NewName("x", symbol.Location{}))
	child := root.Child()

	assert.True(t, child.Contains("x"))
	assert.False(t, child.Declares("x"))
}

func TestContext_RemoveFindsNearestDeclaringAncestor(t *testing.T) {
	root := New("t.py")
	root.Add(symbol.NewName("x", symbol.Location{}))
	child := root.Child()

	child.Remove("x")
	assert.False(t, child.Contains("x"), "Remove must delete from whichever ancestor actually declares it")
}

func TestContext_AllSymbolsPrefersInnermostBindingOnShadow(t *testing.T) {
	root := New("t.py")
	root.Add(symbol.Func{Name: "x"})
	child := root.Child()
	child.AddArgument(symbol.NewName("x", symbol.Location{}))

	names := child.AllNames()
	assert.Contains(t, names, "x")
	assert.Len(t, names, 1, "a shadowed binding must only appear once in AllSymbols")

	syms := child.AllSymbols()
	_, isName := syms[0].(symbol.Name)
	assert.True(t, isName, "AllSymbols must resolve shadowed names to the innermost binding")
}

func TestContext_RootWalksToTop(t *testing.T) {
	root := New("t.py")
	mid := root.Child()
	leaf := mid.Child()

	assert.Same(t, root, leaf.Root())
	assert.True(t, root.IsRoot())
	assert.False(t, leaf.IsRoot())
}

func TestContext_IsInitFile(t *testing.T) {
	assert.True(t, New("pkg/__init__.py").IsInitFile())
	assert.False(t, New("pkg/mod.py").IsInitFile())
}

func TestContext_GetClassOrErrorAndGetFuncOrError(t *testing.T) {
	root := New("t.py")
	root.Add(symbol.Class{Name: "C"})
	root.Add(symbol.Func{Name: "f"})

	_, ok := root.GetClassOrError("C")
	assert.True(t, ok)
	_, ok = root.GetClassOrError("f")
	assert.False(t, ok, "GetClassOrError must reject a binding of the wrong concrete type")

	_, ok = root.GetFuncOrError("f")
	assert.True(t, ok)
	_, ok = root.GetFuncOrError("missing")
	assert.False(t, ok)
}

func TestSymbolTable_SetOverwritesWithoutDuplicatingOrder(t *testing.T) {
	tbl := NewSymbolTable()
	tbl.Set(symbol.NewName("a", symbol.Location{File: "1.py"}))
	tbl.Set(symbol.NewName("a", symbol.Location{File: "2.py"}))

	assert.Equal(t, 1, tbl.Len())
	sym, _ := tbl.Get("a")
	assert.Equal(t, "2.py", sym.Loc().File)
}

func TestSymbolTable_DeleteRemovesFromOrder(t *testing.T) {
	tbl := NewSymbolTable()
	tbl.Set(symbol.NewName("a", symbol.Location{}))
	tbl.Set(symbol.NewName("b", symbol.Location{}))
	tbl.Delete("a")

	assert.Equal(t, []string{"b"}, tbl.Names())
	assert.False(t, tbl.Has("a"))
}
