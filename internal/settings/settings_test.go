package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dootask/assetsctl/internal/config"
	"github.com/dootask/assetsctl/internal/settings"
)

func TestResolve_Defaults(t *testing.T) {
	s := settings.Resolve(nil, settings.Snapshot{})

	assert.Equal(t, config.DefaultServerURL, s.ServerURL)
	assert.Equal(t, config.DefaultPageSize, s.PageSize)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.Token)
}

func TestResolve_FileOverridesDefaults(t *testing.T) {
	file := &config.File{
		Server:   "https://assets.internal:9443",
		Token:    "file-token",
		PageSize: 50,
		LogLevel: "debug",
	}
	s := settings.Resolve(file, settings.Snapshot{})

	assert.Equal(t, "https://assets.internal:9443", s.ServerURL)
	assert.Equal(t, "file-token", s.Token)
	assert.Equal(t, 50, s.PageSize)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestResolve_OverridesWinOverFile(t *testing.T) {
	file := &config.File{Server: "https://from-file", Token: "file-token", PageSize: 50}
	s := settings.Resolve(file, settings.Snapshot{
		ServerURL: "https://from-flag",
		PageSize:  10,
	})

	assert.Equal(t, "https://from-flag", s.ServerURL)
	assert.Equal(t, 10, s.PageSize)
	// Unset override fields fall back to the file.
	assert.Equal(t, "file-token", s.Token)
}

func TestService_UpdateInstallsNewSnapshot(t *testing.T) {
	svc := settings.NewService(settings.Snapshot{ServerURL: "a", PageSize: 20})
	before := svc.Current()

	next := svc.Update(func(s settings.Snapshot) settings.Snapshot {
		s.ServerURL = "b"
		return s
	})

	assert.Equal(t, "b", next.ServerURL)
	assert.Equal(t, "b", svc.Current().ServerURL)
	assert.Equal(t, 20, svc.Current().PageSize)
	// The snapshot handed out earlier is untouched.
	assert.Equal(t, "a", before.ServerURL)
}
