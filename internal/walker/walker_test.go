package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
}

func TestFindPythonFiles_FindsNestedPyFilesOnly(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top.py"))
	touch(t, filepath.Join(root, "pkg", "mod.py"))
	touch(t, filepath.Join(root, "notes.txt"))

	files, err := FindPythonFiles(root)
	require.NoError(t, err)

	assert.Contains(t, files, filepath.Join(root, "top.py"))
	assert.Contains(t, files, filepath.Join(root, "pkg", "mod.py"))
	assert.NotContains(t, files, filepath.Join(root, "notes.txt"))
}

func TestFindPythonFiles_SkipsVenvAndVcsDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "src.py"))
	touch(t, filepath.Join(root, ".venv", "lib", "ignored.py"))
	touch(t, filepath.Join(root, ".git", "ignored.py"))
	touch(t, filepath.Join(root, "__pycache__", "ignored.py"))

	files, err := FindPythonFiles(root)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "src.py")}, files)
}

func TestFindPythonFiles_NonexistentRootErrors(t *testing.T) {
	_, err := FindPythonFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
