package pricing

import "errors"

// Validation failures abort a calculation immediately; no partial result is
// ever returned. Callers match them with errors.Is.
var (
	ErrInvalidDimension = errors.New("non-positive dimension")
	ErrInvalidWeight    = errors.New("non-positive weight")
	ErrUnsupportedMode  = errors.New("unsupported transport mode")
)
