package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaforge/nova/internal/config"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nova.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.FormatText, cfg.DiagnosticsFormat)
	assert.Equal(t, []string{"."}, cfg.SourceRoots)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nova.yaml")
	contents := "sourceRoots:\n  - src\n  - lib\ndisabledPasses:\n  - loop-invariant-code-motion\ndiagnosticsFormat: json\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "lib"}, cfg.SourceRoots)
	assert.Equal(t, config.FormatJSON, cfg.DiagnosticsFormat)

	opts := cfg.OptimizeOptions()
	assert.NotNil(t, opts)
}

func TestValidateRejectsUnknownPass(t *testing.T) {
	cfg := config.Default()
	cfg.DisabledPasses = []string{"not-a-real-pass"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	cfg := config.Default()
	cfg.DiagnosticsFormat = "xml"
	assert.Error(t, cfg.Validate())
}
