// Package settings holds the console's runtime settings as an explicit
// service handing out immutable snapshots. Readers keep the snapshot they
// were given; updates build a new snapshot and swap it in, so no caller ever
// observes a half-applied change.
package settings

import (
	"sync"

	"github.com/dootask/assetsctl/internal/config"
)

// Snapshot is one immutable view of the console settings.
type Snapshot struct {
	ServerURL string
	Token     string
	PageSize  int
	LogLevel  string
}

// Resolve merges the config file with flag/env overrides. Overrides win when
// non-empty/non-zero; file values win over built-in defaults.
func Resolve(file *config.File, overrides Snapshot) Snapshot {
	s := Snapshot{
		ServerURL: config.DefaultServerURL,
		PageSize:  config.DefaultPageSize,
		LogLevel:  "info",
	}

	if file != nil {
		if file.Server != "" {
			s.ServerURL = file.Server
		}
		if file.Token != "" {
			s.Token = file.Token
		}
		if file.PageSize > 0 {
			s.PageSize = file.PageSize
		}
		if file.LogLevel != "" {
			s.LogLevel = file.LogLevel
		}
	}

	if overrides.ServerURL != "" {
		s.ServerURL = overrides.ServerURL
	}
	if overrides.Token != "" {
		s.Token = overrides.Token
	}
	if overrides.PageSize > 0 {
		s.PageSize = overrides.PageSize
	}
	if overrides.LogLevel != "" {
		s.LogLevel = overrides.LogLevel
	}
	return s
}

// Service owns the current snapshot. Safe for concurrent use.
type Service struct {
	mu      sync.RWMutex
	current Snapshot
}

// NewService creates a Service starting from the given snapshot.
func NewService(initial Snapshot) *Service {
	return &Service{current: initial}
}

// Current returns the active snapshot.
func (s *Service) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update derives a new snapshot from the current one via apply, installs it,
// and returns it. The previous snapshot is never mutated.
func (s *Service) Update(apply func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := apply(s.current)
	s.current = next
	return next
}
