package client

import (
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

var (
	// ErrUnauthorized is returned for HTTP 401; the session has been cleared
	ErrUnauthorized = errors.New("session expired, please log in again")

	// ErrMalformedResponse is returned when a success envelope lacks required data
	ErrMalformedResponse = errors.New("malformed response")
)

// ValidationError rejects input before any request is sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing identifier
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s ID is required", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// TransportError wraps a failure to reach the server
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is an application-level failure reported by the server
type APIError struct {
	// Status is the HTTP status of the response
	Status int
	// Code is the envelope code, or the HTTP status when no envelope was sent
	Code int
	// Msg is the server message, or a generic message when none was sent
	Msg string
}

func (e *APIError) Error() string {
	return e.Msg
}

// IsNotFound reports whether err is a NotFoundError or an APIError with code 404
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == api.CodeNotFound
}

// Message returns the text to show the user for err
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Msg
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "Unable to reach the server, please try again"
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
