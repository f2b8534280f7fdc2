package registry

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrToolNotFound    = errors.New("tool not found")
	ErrDuplicateTool   = errors.New("tool already registered")
	ErrHandlerNotFound = errors.New("handler not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNoDiscovery     = errors.New("discovery is required")
)
