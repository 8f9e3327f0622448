package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadwood-dev/deadwood/internal/config"
)

func TestGeneratedConfigRoundTrips(t *testing.T) {
	content, err := generateDefaultConfig()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "deadwood.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := config.Load(path)
	require.NoError(t, err, "generated config should load cleanly")

	defaults := config.DefaultConfig()
	assert.Equal(t, defaults.IgnorePatterns, loaded.IgnorePatterns)
	assert.Equal(t, defaults.ScanExtensions, loaded.ScanExtensions)
	assert.Equal(t, defaults.ReferencePatterns, loaded.ReferencePatterns)
	assert.Equal(t, defaults.SpecialFiles, loaded.SpecialFiles)
	assert.Equal(t, defaults.MinFileSize, loaded.MinFileSize)
	assert.Equal(t, defaults.MaxFileSize, loaded.MaxFileSize)
}

func TestVerboseEnabled(t *testing.T) {
	assert.True(t, verboseEnabled([]string{"deadwood", "--verbose", "."}))
	assert.False(t, verboseEnabled([]string{"deadwood", "."}))
}

func TestNewAppCommands(t *testing.T) {
	app := newApp()

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"scan", "dupes", "init"} {
		assert.True(t, names[want], "missing command %q", want)
	}
	assert.NotNil(t, app.Action, "bare invocation should scan")
}
