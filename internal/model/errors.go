package model

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by key-value backends for missing keys.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated is returned when an operation needs a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ErrorKind classifies failures surfaced to state containers.
type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindValidation
	KindAuth
	KindConflict
	KindNotFound
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "server"
	}
}

// APIError is a structured failure of an API call.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Errors  map[string][]string
	// Location is set on conflicts and holds the pre-existing record.
	Location *Location
	Err      error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a client-side validation error.
func NewValidationError(message string, fields map[string][]string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Errors: fields}
}

// NewServerError wraps a transport failure.
func NewServerError(err error) *APIError {
	return &APIError{Kind: KindServer, Message: err.Error(), Err: err}
}

// KindForStatus maps an HTTP status code to an error kind.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindServer
	}
}

// AsAPIError extracts an *APIError from the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// MessageOr returns the server supplied message or fallback.
func MessageOr(err error, fallback string) string {
	apiErr, ok := AsAPIError(err)
	if ok && apiErr.Status > 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
