// Package apperr defines sentinel errors shared across the study components.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrUnknownAction = errors.New("unknown action")
	ErrStorage       = errors.New("storage failure")
)
