package models

import "errors"

// Sentinel errors returned by the shared store helpers. Controllers map
// them onto the HTTP envelope.
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("storage conflict")
)
