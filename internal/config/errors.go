package config

import "errors"

// Sentinel kinds callers can test with errors.Is.
var (
	// ErrLoadConfig wraps failures in the file or environment layers.
	ErrLoadConfig = errors.New("load config failed")

	// ErrInvalidConfig marks a loaded configuration the valuation or
	// pipeline invariants cannot hold under.
	ErrInvalidConfig = errors.New("invalid config")
)
