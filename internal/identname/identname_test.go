package identname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/pyast"
)

func name(id string) *pyast.Name { return &pyast.Name{Id: id} }

func TestNamesOf_Name(t *testing.T) {
	basename, fullname, err := NamesOf(name("x"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "x", basename)
	assert.Equal(t, "x", fullname)
}

func TestNamesOf_Attribute(t *testing.T) {
	node := &pyast.Attribute{Value: name("a"), Attr: "b"}

	basename, fullname, err := NamesOf(node, Options{})
	require.NoError(t, err)
	assert.Equal(t, "a", basename)
	assert.Equal(t, "a.b", fullname)
}

func TestNamesOf_NestedAttribute(t *testing.T) {
	node := &pyast.Attribute{
		Value: &pyast.Attribute{Value: name("a"), Attr: "b"},
		Attr:  "c",
	}

	basename, fullname, err := NamesOf(node, Options{})
	require.NoError(t, err)
	assert.Equal(t, "a", basename)
	assert.Equal(t, "a.b.c", fullname)
}

func TestNamesOf_Subscript(t *testing.T) {
	node := &pyast.Subscript{Value: name("d"), Slice: &pyast.Constant{Kind: "int", Value: "0"}}

	basename, fullname, err := NamesOf(node, Options{})
	require.NoError(t, err)
	assert.Equal(t, "d", basename)
	assert.Equal(t, "d[]", fullname)
}

func TestNamesOf_Call(t *testing.T) {
	node := &pyast.Call{Func: name("f")}

	basename, fullname, err := NamesOf(node, Options{})
	require.NoError(t, err)
	assert.Equal(t, "f", basename)
	assert.Equal(t, "f()", fullname)
}

func TestNamesOf_Starred(t *testing.T) {
	node := &pyast.Starred{Value: name("args")}

	_, fullname, err := NamesOf(node, Options{})
	require.NoError(t, err)
	assert.Equal(t, "*args", fullname)
}

func TestNamesOf_UnnameableIsErrorUnlessSafe(t *testing.T) {
	node := &pyast.BinOp{Left: name("a"), Right: name("b")}

	_, _, err := NamesOf(node, Options{Safe: false})
	require.Error(t, err)
	var unnameable *UnnameableError
	assert.ErrorAs(t, err, &unnameable)

	basename, fullname, err := NamesOf(node, Options{Safe: true})
	require.NoError(t, err)
	assert.Equal(t, "@BinOp", basename)
	assert.Equal(t, "@BinOp", fullname)
}

func TestNamesOf_UnravelsGetattrCall(t *testing.T) {
	call := &pyast.Call{
		Func: name("getattr"),
		Args: []pyast.Expr{name("obj"), &pyast.Constant{Kind: "str", Value: "field"}},
	}

	basename, fullname, err := NamesOf(call, Options{UnravelAttrAccessCalls: true})
	require.NoError(t, err)
	assert.Equal(t, "obj", basename)
	assert.Equal(t, "obj.field", fullname)
}

func TestNamesOf_GetattrWithoutUnravelIsOrdinaryCall(t *testing.T) {
	call := &pyast.Call{
		Func: name("getattr"),
		Args: []pyast.Expr{name("obj"), &pyast.Constant{Kind: "str", Value: "field"}},
	}

	_, fullname, err := NamesOf(call, Options{UnravelAttrAccessCalls: false})
	require.NoError(t, err)
	assert.Equal(t, "getattr()", fullname)
}

func TestNamesOf_MemoizesByNodeIdentityAndOptions(t *testing.T) {
	node := name("memo")

	b1, f1, err := NamesOf(node, Options{Safe: true})
	require.NoError(t, err)
	b2, f2, err := NamesOf(node, Options{Safe: true})
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
	assert.Equal(t, f1, f2)

	// A different Options value is a distinct cache key.
	_, f3, err := NamesOf(node, Options{Safe: false})
	require.NoError(t, err)
	assert.Equal(t, f1, f3) // Name is always nameable regardless of Safe
}

func TestBasenameOfAndFullnameOf(t *testing.T) {
	node := &pyast.Attribute{Value: name("a"), Attr: "b"}

	basename, err := BasenameOf(node, false)
	require.NoError(t, err)
	assert.Equal(t, "a", basename)

	fullname, err := FullnameOf(node, false)
	require.NoError(t, err)
	assert.Equal(t, "a.b", fullname)
}

func TestHasNamedtupleDeclarationInRHS(t *testing.T) {
	call := &pyast.Call{Func: name("namedtuple")}
	found, ok := HasNamedtupleDeclarationInRHS(call)
	require.True(t, ok)
	assert.Same(t, call, found)

	qualified := &pyast.Call{Func: &pyast.Attribute{Value: name("collections"), Attr: "namedtuple"}}
	_, ok = HasNamedtupleDeclarationInRHS(qualified)
	assert.True(t, ok)

	notNamedtuple := &pyast.Call{Func: name("dict")}
	_, ok = HasNamedtupleDeclarationInRHS(notNamedtuple)
	assert.False(t, ok)

	notACall := name("x")
	_, ok = HasNamedtupleDeclarationInRHS(notACall)
	assert.False(t, ok)
}

func TestWalrusesInRHS(t *testing.T) {
	walrus := &pyast.NamedExpr{Target: name("y"), Value: &pyast.Constant{Kind: "int", Value: "1"}}
	node := &pyast.BinOp{Left: walrus, Right: name("z")}

	found := WalrusesInRHS(node)
	require.Len(t, found, 1)
	assert.Same(t, walrus, found[0])

	assert.True(t, HasWalrusInRHS(node))
	assert.False(t, HasWalrusInRHS(name("plain")))
}

func TestIsStarredAndRelativeImport(t *testing.T) {
	starred := &pyast.ImportFrom{Names: []pyast.Alias{{Name: "*"}}}
	assert.True(t, IsStarredImport(starred))

	notStarred := &pyast.ImportFrom{Names: []pyast.Alias{{Name: "x"}}}
	assert.False(t, IsStarredImport(notStarred))

	relative := &pyast.ImportFrom{Level: 1}
	assert.True(t, IsRelativeImport(relative))

	absolute := &pyast.ImportFrom{Level: 0}
	assert.False(t, IsRelativeImport(absolute))
}

func TestHasLambdaInRHS(t *testing.T) {
	assert.True(t, HasLambdaInRHS(&pyast.Lambda{}))
	assert.False(t, HasLambdaInRHS(name("x")))
}
