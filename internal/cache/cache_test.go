package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/results"
	"github.com/suadelabs/rattr/internal/serialize"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_GetOnEmptyCacheMisses(t *testing.T) {
	store := openStore(t)

	_, ok := store.Get("a.py")
	assert.False(t, ok)
}

func TestStore_PutThenGetRoundTrips(t *testing.T) {
	store := openStore(t)

	record := &serialize.Record{
		Version:       "1",
		ArgumentsHash: "abc",
		PluginsHash:   "def",
		Filepath:      "a.py",
		Filehash:      "hash1",
		Imports:       []serialize.ImportInfo{{Filepath: "b.py", Filehash: "hash2"}},
	}
	require.NoError(t, store.Put("a.py", record))

	got, ok := store.Get("a.py")
	require.True(t, ok)
	assert.Equal(t, record.ArgumentsHash, got.ArgumentsHash)
	assert.Equal(t, record.Filehash, got.Filehash)
	assert.Equal(t, record.Imports, got.Imports)
}

func TestStore_PutUpsertsOnConflict(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Put("a.py", &serialize.Record{Filehash: "first"}))
	require.NoError(t, store.Put("a.py", &serialize.Record{Filehash: "second"}))

	got, ok := store.Get("a.py")
	require.True(t, ok)
	assert.Equal(t, "second", got.Filehash)
}

func TestIsUpToDate_NilRecordsAreNeverUpToDate(t *testing.T) {
	assert.False(t, IsUpToDate(nil, &serialize.Record{}))
	assert.False(t, IsUpToDate(&serialize.Record{}, nil))
}

func TestIsUpToDate_MatchingRecordsAreUpToDate(t *testing.T) {
	a := &serialize.Record{Version: "1", ArgumentsHash: "h1", PluginsHash: "h2", Filepath: "a.py", Filehash: "h3",
		Imports: []serialize.ImportInfo{{Filepath: "b.py", Filehash: "h4"}}}
	b := *a
	assert.True(t, IsUpToDate(a, &b))
}

func TestIsUpToDate_DiffersOnFilehashIsStale(t *testing.T) {
	a := &serialize.Record{Filepath: "a.py", Filehash: "h1"}
	b := &serialize.Record{Filepath: "a.py", Filehash: "h2"}
	assert.False(t, IsUpToDate(a, b))
}

func TestIsUpToDate_DiffersOnImportsIsStale(t *testing.T) {
	a := &serialize.Record{Imports: []serialize.ImportInfo{{Filepath: "b.py", Filehash: "h1"}}}
	b := &serialize.Record{Imports: []serialize.ImportInfo{{Filepath: "b.py", Filehash: "h2"}}}
	assert.False(t, IsUpToDate(a, b))

	c := &serialize.Record{Imports: []serialize.ImportInfo{}}
	assert.False(t, IsUpToDate(a, c), "differing import counts must be stale")
}

func TestIsUpToDate_IgnoresResultsField(t *testing.T) {
	a := &serialize.Record{Filepath: "a.py", Filehash: "h1", Results: results.FileResults{"f": {Gets: []string{"x"}}}}
	b := &serialize.Record{Filepath: "a.py", Filehash: "h1", Results: results.FileResults{}}
	assert.True(t, IsUpToDate(a, b), "Results must not factor into staleness")
}
