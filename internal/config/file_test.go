package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileConfig_MissingFileIsNotAnError(t *testing.T) {
	fc, err := LoadFileConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, fc.Strict)
}

func TestLoadFileConfig_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".rattr.yaml")
	content := "strict: true\nthreshold: 5\nexclude_import:\n  - foo\n  - bar\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)
	require.NotNil(t, fc.Strict)
	assert.True(t, *fc.Strict)
	require.NotNil(t, fc.Threshold)
	assert.Equal(t, 5, *fc.Threshold)
	assert.Equal(t, []string{"foo", "bar"}, fc.ExcludedImports)
}

func TestFindProjectConfig_WalksUpToAncestorDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".rattr.yaml"), []byte(""), 0o644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := FindProjectConfig(nested)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, ".rattr.yaml"), found)
}

func TestFindProjectConfig_NoneFoundReturnsFalse(t *testing.T) {
	_, ok := FindProjectConfig(t.TempDir())
	assert.False(t, ok)
}

func TestApplyDefaults_OnlyFillsUnsetFields(t *testing.T) {
	strict := true
	threshold := 10
	fc := FileConfig{Strict: &strict, Threshold: &threshold}

	args := Arguments{IsStrict: false, Threshold: 0}
	merged := fc.ApplyDefaults(args)
	assert.True(t, merged.IsStrict)
	assert.Equal(t, 10, merged.Threshold)
}

func TestApplyDefaults_CLIValueWinsOverFileConfig(t *testing.T) {
	threshold := 10
	fc := FileConfig{Threshold: &threshold}

	args := Arguments{Threshold: 99}
	merged := fc.ApplyDefaults(args)
	assert.Equal(t, 99, merged.Threshold, "an explicitly set CLI value must never be overridden by the file config")
}
