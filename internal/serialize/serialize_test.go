package serialize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/symbol"
)

func TestLocation_RoundTripsAsFiveElementTuple(t *testing.T) {
	loc := Location(symbol.Location{LineNo: 3, EndLineNo: 4, ColOffset: 1, EndColOffset: 9, File: "a.py"})

	data, err := json.Marshal(loc)
	require.NoError(t, err)
	assert.JSONEq(t, `[3,4,1,9,"a.py"]`, string(data))

	var back Location
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, loc, back)
}

func TestSymbol_CallRoundTripsWithTargetAndArgs(t *testing.T) {
	target := symbol.Func{Name: "helper", Location: symbol.Location{File: "a.py", LineNo: 1}}
	call := symbol.Call{
		Name:     "helper()",
		Target:   target,
		Args:     symbol.CallArguments{Args: []string{"x"}, Kwargs: map[string]string{"flag": "y"}},
		Location: symbol.Location{File: "a.py", LineNo: 2},
	}

	env := FromSymbol(call)
	data, err := json.Marshal(env)
	require.NoError(t, err)

	var roundTripped Symbol
	require.NoError(t, json.Unmarshal(data, &roundTripped))

	back, err := roundTripped.ToSymbol()
	require.NoError(t, err)

	backCall, ok := back.(symbol.Call)
	require.True(t, ok)
	assert.Equal(t, "helper()", backCall.Name)
	assert.Equal(t, []string{"x"}, backCall.Args.Args)
	assert.Equal(t, "y", backCall.Args.Kwargs["flag"])
	require.NotNil(t, backCall.Target)
	assert.Equal(t, "helper", backCall.Target.SymbolName())
}

func TestSymbol_ImportRoundTrip(t *testing.T) {
	imp := symbol.Import{LocalName: "np", Qualified: "numpy", ModuleName: "numpy", Starred: false, Location: symbol.Location{File: "a.py"}}

	back, err := FromSymbol(imp).ToSymbol()
	require.NoError(t, err)
	assert.Equal(t, imp, back)
}

func TestSymbol_UnknownTypeFailsToReconstruct(t *testing.T) {
	_, err := Symbol{Type: "NotAThing"}.ToSymbol()
	assert.Error(t, err)
}

func TestFunctionIr_RoundTripPreservesEachSet(t *testing.T) {
	fn := ir.New()
	fn.AddGet(symbol.NewName("g", symbol.Location{}))
	fn.AddSet(symbol.NewName("s", symbol.Location{}))
	fn.AddDel(symbol.NewName("d", symbol.Location{}))
	fn.AddCall(symbol.Call{Name: "c()"})

	wire := FromFunctionIr(fn)
	data, err := json.Marshal(wire)
	require.NoError(t, err)

	var back FunctionIr
	require.NoError(t, json.Unmarshal(data, &back))

	reconstructed, err := back.ToFunctionIr()
	require.NoError(t, err)
	assert.Contains(t, reconstructed.Gets, "g")
	assert.Contains(t, reconstructed.Sets, "s")
	assert.Contains(t, reconstructed.Dels, "d")
	assert.Contains(t, reconstructed.Calls, "c()")
}

func TestFileIr_RoundTripPreservesInsertionOrder(t *testing.T) {
	fileIr := ir.NewFileIr()
	fileIr.Set(symbol.Func{Name: "first"}, ir.New())
	fileIr.Set(symbol.Func{Name: "second"}, ir.New())

	wire := FromFileIr(fileIr)
	data, err := json.Marshal(wire)
	require.NoError(t, err)

	var back FileIr
	require.NoError(t, json.Unmarshal(data, &back))

	reconstructed, err := back.ToFileIr()
	require.NoError(t, err)

	entries := reconstructed.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Symbol.SymbolName())
	assert.Equal(t, "second", entries[1].Symbol.SymbolName())
}

func TestHashFile_MissingFileHashesToEmptyDigest(t *testing.T) {
	assert.Equal(t, emptyMD5, HashFile(filepath.Join(t.TempDir(), "missing.py")))
}

func TestHashFile_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")

	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	first := HashFile(path)

	require.NoError(t, os.WriteFile(path, []byte("x = 2"), 0o644))
	second := HashFile(path)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, emptyMD5, first)
}

func TestArgumentsFingerprint_OrderOfExclusionsDoesNotAffectHash(t *testing.T) {
	a := ArgumentsFingerprint{FollowImportsLevel: 1, ExcludedImports: []string{"b", "a"}}
	b := ArgumentsFingerprint{FollowImportsLevel: 1, ExcludedImports: []string{"a", "b"}}

	assert.Equal(t, a.Hash(), b.Hash())
}

func TestArgumentsFingerprint_DifferingLevelChangesHash(t *testing.T) {
	a := ArgumentsFingerprint{FollowImportsLevel: 1}
	b := ArgumentsFingerprint{FollowImportsLevel: 2}

	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestPluginsHash_OrderIndependent(t *testing.T) {
	a := PluginsHash([]PluginFingerprint{{Name: "z", SourceFile: "z.go"}, {Name: "a", SourceFile: "a.go"}})
	b := PluginsHash([]PluginFingerprint{{Name: "a", SourceFile: "a.go"}, {Name: "z", SourceFile: "z.go"}})

	assert.Equal(t, a, b)
}

func TestNewImportInfo_NormalizesToPosixPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg", "mod.py")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))

	info := NewImportInfo(path)
	assert.Equal(t, ToPosixPath(path), info.Filepath)
	assert.NotEqual(t, emptyMD5, info.Filehash)
}
