// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package groq

import "fmt"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType classifies client errors so callers can choose how to present
// them without string matching.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotConfigured
	ErrTypeAuth
	ErrTypeRateLimited
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
	ErrTypeAPI
)

// ClientError is a typed error for Groq API failures.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int // HTTP status code when applicable, else 0
	Cause   error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("groq: %s (HTTP %d)", e.Message, e.Status)
	}
	return "groq: " + e.Message
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches two ClientErrors by Type, so sentinel comparisons with
// errors.Is work regardless of message detail.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Sentinel errors for errors.Is checks.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = &ClientError{Type: ErrTypeNotConfigured, Message: "Groq API key not configured"}

	// ErrAuthFailed indicates an invalid or expired API key.
	ErrAuthFailed = &ClientError{Type: ErrTypeAuth, Message: "authentication failed"}

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = &ClientError{Type: ErrTypeRateLimited, Message: "rate limited"}

	// ErrTimeout indicates the request exceeded the client timeout.
	ErrTimeout = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}

	// ErrInvalidResponse indicates the response body did not match the
	// expected completion schema.
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response"}
)
