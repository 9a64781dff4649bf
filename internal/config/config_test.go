package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dootask/assetsctl/internal/config"
)

func TestLoad_MissingFileYieldsEmpty(t *testing.T) {
	f, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &config.File{}, f)
}

func TestLoad_EmptyPathYieldsEmpty(t *testing.T) {
	f, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, &config.File{}, f)
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "server: https://assets.internal\ntoken: secret\npage_size: 100\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	f, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://assets.internal", f.Server)
	assert.Equal(t, "secret", f.Token)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "warn", f.LogLevel)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := config.Load(path)
	assert.Error(t, err)
}
