package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors callers can match with errors.Is. Every APIError unwraps to one of them.
var (
	// ErrInvalidConfig indicates the client configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrBadRequest indicates the request was rejected as invalid (400).
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates a missing, expired or revoked session (401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for the request (403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist (404).
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates the request conflicts with existing state (409).
	ErrConflict = errors.New("conflict with existing resource")

	// ErrRateLimited indicates the request was rate limited by the server (429).
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServerError indicates the server failed to handle the request (5xx).
	ErrServerError = errors.New("server error")

	// ErrUnexpectedStatus is used for statuses no other sentinel covers.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// APIError is a non-2xx response from the console server.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Code is the short error code from the body, e.g. "Not Found".
	Code string
	// Message is the human readable message from the body.
	Message string
	// RequestID identifies the request in the server logs.
	RequestID string
	// RetryAfter is the Retry-After header in seconds, if the server sent one.
	RetryAfter int
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Unwrap(), msg, e.StatusCode)
}

// Unwrap returns the sentinel for the status code.
func (e *APIError) Unwrap() error {
	return sentinelForStatus(e.StatusCode)
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= http.StatusInternalServerError:
		return ErrServerError
	default:
		return ErrUnexpectedStatus
	}
}
