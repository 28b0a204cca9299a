// Package common defines sentinel errors shared across the layers of the
// Recipe Box service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorDenied signals an ownership check failure. The HTTP boundary maps
	// this and a missing recipe to the same ambiguous status so a caller
	// cannot probe for existence.
	ErrorDenied = errors.New("access denied")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Token lifecycle errors. Expired and absent tokens are deliberately
	// indistinguishable: the session backend drops expired entries itself.
	ErrInvalidToken = errors.New("invalid or expired token")
)
