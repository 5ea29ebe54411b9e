package data

import "errors"

// Common repository errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrInvalidData     = errors.New("invalid data provided")
)
