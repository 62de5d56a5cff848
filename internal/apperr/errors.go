// Package apperr defines the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTree       = errors.New("invalid tree")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnsupportedFormat = errors.New("unsupported format")
)
