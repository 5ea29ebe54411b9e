// Package services holds the business logic between the HTTP handlers and
// the data layer. Every operation is scoped to a company.
package services

import "errors"

// Service-level errors mapped to HTTP statuses by the handlers
var (
	ErrValidation   = errors.New("invalid input")
	ErrForbidden    = errors.New("operation not permitted")
	ErrAlreadyDone  = errors.New("operation already performed")
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
)
