package analytics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_TogglesEnableMetrics(t *testing.T) {
	Init(true)
	assert.False(t, enableMetrics)

	Init(false)
	assert.True(t, enableMetrics)
}

func TestReportEvent_NoopWithoutPublicKey(t *testing.T) {
	Init(false)
	PublicKey = ""
	assert.NotPanics(t, func() { ReportEvent(EventVersionCommand) })
}

func TestReportEvent_NoopWhenMetricsDisabled(t *testing.T) {
	Init(true)
	PublicKey = "some-key"
	defer func() { PublicKey = "" }()
	assert.NotPanics(t, func() { ReportEvent(EventVersionCommand) })
}

func TestLoadEnvFile_CreatesEnvFileUnderHomeRattrDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	LoadEnvFile()

	envFile := filepath.Join(home, ".rattr", ".env")
	_, err := os.Stat(envFile)
	require.NoError(t, err, "LoadEnvFile must create ~/.rattr/.env on first run")
}

func TestLoadEnvFile_DoesNotOverwriteExistingUUID(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	LoadEnvFile()
	envFile := filepath.Join(home, ".rattr", ".env")
	first, err := os.ReadFile(envFile)
	require.NoError(t, err)

	LoadEnvFile()
	second, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, first, second, "a pre-existing UUID must not be regenerated")
}

func TestEnvFilePath_JoinsHomeDirWithDotRattr(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := envFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".rattr", ".env"), path)
}
