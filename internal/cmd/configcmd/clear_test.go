package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/jinja-div/internal/config"
)

func TestRunClear_WithExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "jdiv", "config.yml")

	cfg := &config.Config{DefaultFormat: "man", OutputDir: "build"}
	require.NoError(t, cfg.Save(configPath))

	var buf bytes.Buffer
	err := runClear(configPath, true, &buf)
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, buf.String(), "Configuration cleared from "+configPath)
}

func TestRunClear_NoConfigFile(t *testing.T) {
	var buf bytes.Buffer
	err := runClear(filepath.Join(t.TempDir(), "config.yml"), true, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No config file to remove")
}

func TestRunClear_Idempotent(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")

	require.NoError(t, runClear(configPath, true, &bytes.Buffer{}))
	require.NoError(t, runClear(configPath, true, &bytes.Buffer{}))
}

func TestRunClear_ReportsActiveEnvVars(t *testing.T) {
	t.Setenv("JDIV_FORMAT", "latex")

	var buf bytes.Buffer
	require.NoError(t, runClear(filepath.Join(t.TempDir(), "config.yml"), true, &buf))
	assert.Contains(t, buf.String(), "Environment variables will still be used: JDIV_FORMAT")
}
