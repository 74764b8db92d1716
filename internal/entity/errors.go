package entity

import "errors"

// Domain errors
var (
	// Configuration errors
	ErrNotConfigured = errors.New("completion provider credential is not configured")

	// Validation errors
	ErrMissingBackground = errors.New("missing background description")
	ErrInvalidIntimacy   = errors.New("intimacy must be 1-10")
	ErrMalformedBody     = errors.New("malformed request body")
)
