package domain

import (
	"errors"
	"fmt"
)

// Domain-specific errors shared by the API client and the console layer.
var (
	// Entity errors. The specific sentinels wrap ErrNotFound so callers can
	// match either level.
	ErrNotFound      = errors.New("entity not found")
	ErrAgentNotFound = fmt.Errorf("agent: %w", ErrNotFound)
	ErrAssetNotFound = fmt.Errorf("asset: %w", ErrNotFound)

	// Backend errors
	ErrBackend     = errors.New("backend reported an error")
	ErrUnavailable = errors.New("backend unavailable")

	// Console errors
	ErrAborted          = errors.New("operation aborted")
	ErrMutationInFlight = errors.New("another mutation is in flight for this entity")

	// Validation errors
	ErrInvalidStatus = errors.New("invalid status value")
	ErrInvalidFormat = errors.New("invalid export format")
	ErrInvalidPeriod = errors.New("invalid report period")
)
