package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// ValidationError reports malformed or out-of-range client input.
// Field is the offending draft field when known (e.g. "age", "statistics[1].goals").
type ValidationError struct {
	*DomainError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{DomainError: NewDomainError(message), Field: field}
}

// NotFoundError reports a referenced player that does not exist.
type NotFoundError struct {
	*DomainError
	Resource string
	ID       int
}

func NewNotFoundError(resource string, id int) *NotFoundError {
	return &NotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("%s not found", resource)),
		Resource:    resource,
		ID:          id,
	}
}

// ConflictError reports a (name, club) pair that is already taken.
type ConflictError struct {
	*DomainError
	Name string
	Club string
}

func NewConflictError(name, club string) *ConflictError {
	return &ConflictError{
		DomainError: NewDomainError(fmt.Sprintf("Player %s already exists in %s", name, club)),
		Name:        name,
		Club:        club,
	}
}

// AuthenticationError reports missing, malformed or rejected credentials.
type AuthenticationError struct {
	*DomainError
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{DomainError: NewDomainError(message)}
}

// ErrorType returns the fault type name used on the wire for err.
func ErrorType(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		authErr       *AuthenticationError
	)
	switch {
	case errors.As(err, &validationErr):
		return "ValidationError"
	case errors.As(err, &notFoundErr):
		return "NotFoundError"
	case errors.As(err, &conflictErr):
		return "ConflictError"
	case errors.As(err, &authErr):
		return "AuthenticationError"
	default:
		return "ServerError"
	}
}

// StatusCode maps err onto the HTTP status the transport answers with.
func StatusCode(err error) int {
	switch ErrorType(err) {
	case "ValidationError":
		return http.StatusUnprocessableEntity
	case "NotFoundError":
		return http.StatusNotFound
	case "ConflictError":
		return http.StatusConflict
	case "AuthenticationError":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to hand back to a caller.
// Unexpected errors are not echoed verbatim.
func PublicMessage(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		authErr       *AuthenticationError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &notFoundErr):
		return notFoundErr.Message
	case errors.As(err, &conflictErr):
		return conflictErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	default:
		return "Internal Server Error"
	}
}
