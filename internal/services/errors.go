package services

import "errors"

// Sentinel errors handlers use to map failures onto HTTP statuses.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// serviceError pairs a user-facing message with a sentinel so that
// errors.Is works while the message stays presentable.
type serviceError struct {
	sentinel error
	message  string
}

func (e *serviceError) Error() string { return e.message }
func (e *serviceError) Unwrap() error { return e.sentinel }

func validationError(message string) error {
	return &serviceError{sentinel: ErrValidation, message: message}
}

func unauthorizedError(message string) error {
	return &serviceError{sentinel: ErrUnauthorized, message: message}
}

func forbiddenError(message string) error {
	return &serviceError{sentinel: ErrForbidden, message: message}
}

func notFoundError(message string) error {
	return &serviceError{sentinel: ErrNotFound, message: message}
}

func conflictError(message string) error {
	return &serviceError{sentinel: ErrConflict, message: message}
}
