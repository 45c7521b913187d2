package services

import "errors"

// Sentinel errors mapped to HTTP status codes by the handlers.
// Wrapped messages keep the plain-text forms ("not found", "already exists") that API clients match on.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)
