// Package common defines shared constants and sentinel errors used across
// client and server layers of TaskKeeper. Callers should use errors.Is to
// match these values and KindOf to classify them at a boundary.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorValidation   = errors.New("validation failed")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInternal     = errors.New("internal error")

	// ErrorAlreadyExists is a validation failure: the record collides with
	// an existing one (e.g. a registered email).
	ErrorAlreadyExists = fmt.Errorf("%w: already exists", ErrorValidation)

	// Token errors. All of them collapse to KindUnauthorized.
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenBadSignature = errors.New("token signature is invalid")

	// Credential errors.
	ErrMalformedHash = errors.New("malformed password hash")
)

// Kind is the outcome class of a failed operation.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// KindOf classifies err. Anything not recognised is KindInternal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrorValidation):
		return KindValidation
	case errors.Is(err, ErrorUnauthorized),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenBadSignature):
		return KindUnauthorized
	case errors.Is(err, ErrorNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// ValidationError reports a rejected input field. It matches ErrorValidation.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrorValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrorValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrorValidation }

// ValidationFields collects every *ValidationError inside err, including
// those joined with errors.Join.
func ValidationFields(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, ve)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
