// Package apperr defines the error taxonomy the auth service exposes to its
// HTTP gateway: validation (422), conflict (409), unauthorized (401) and
// internal (500).
package apperr

import "net/http"

type Error struct {
	// Status is the HTTP status code this error maps to.
	Status int `json:"-"`

	// Message is a caller-safe description. It never distinguishes internal
	// causes the caller should not learn (user-not-found vs wrong password).
	Message string `json:"message"`

	// Fields holds per-field validation errors, if any.
	Fields map[string]string `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: message, Fields: fields}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Internal is returned for store or signing failures. The cause is logged at
// the point of failure, never surfaced to the caller.
func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error"}
}
