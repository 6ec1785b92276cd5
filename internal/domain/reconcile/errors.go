package reconcile

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrEmptyInput means the caller supplied no bytes at all.
	ErrEmptyInput = errors.New("empty input")
	// ErrEmptyBatch means decoding and parsing produced zero usable rows.
	// This is the only row-level condition surfaced as a batch failure.
	ErrEmptyBatch = errors.New("batch produced no usable rows")
)
