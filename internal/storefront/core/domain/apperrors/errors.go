// Package apperrors holds the error taxonomy shared by the storefront
// services and the HTTP layer that maps it to status codes.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrLoginFailed      = errors.New("login failed")

	ErrMissingIdempotencyKey = fmt.Errorf("%w: missing Idempotency-Key", ErrInvalidInput)
	ErrInvalidOrder          = fmt.Errorf("%w: invalid order", ErrInvalidInput)
	ErrInvalidProduct        = fmt.Errorf("%w: invalid product", ErrInvalidInput)
)
