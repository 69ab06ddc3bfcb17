package models

import "fmt"

// ErrorKind classifies a failed execution so callers can decide how to
// react (retry, surface, reject).
type ErrorKind string

const (
	// ErrAuth covers authentication endpoint failures: unreachable,
	// non-2xx, or a payload missing required fields.
	ErrAuth ErrorKind = "auth_error"

	// ErrUpstream covers non-2xx responses from the search API itself.
	ErrUpstream ErrorKind = "upstream_error"

	// ErrNetwork covers timeouts and transport failures on either
	// outbound call. Distinguished from ErrUpstream so callers can retry.
	ErrNetwork ErrorKind = "network_error"

	// ErrValidation covers malformed caller input rejected before any
	// network call is attempted.
	ErrValidation ErrorKind = "validation_error"
)

// APIError is a structured failure from the token cache or the executor.
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int    // upstream HTTP status, 0 when not applicable
	Detail     string // upstream response body or transport error text
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
