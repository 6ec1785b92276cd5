package roster

import "errors"

// Sentinel kinds for roster snapshot errors.
var (
	ErrNoSnapshot = errors.New("no roster snapshot for season")
)
