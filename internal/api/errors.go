// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error variables for common API failures.
var (
	// ErrUnauthorized indicates the request was rejected with HTTP 401,
	// typically because the access token is missing, invalid or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated user lacks permission,
	// e.g. a non-staff user calling an admin endpoint.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError represents a non-2xx response from the chatbot service.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d)", e.Status)
}

// Unwrap maps well-known status codes to their sentinel errors so callers
// can use errors.Is without inspecting the status themselves.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	default:
		return nil
	}
}

// ValidationError carries field-scoped validation messages, as returned by
// the registration endpoint's "errors" payload.
type ValidationError struct {
	Fields map[string][]string
}

// Error implements the error interface. Fields are listed in sorted order so
// the message is deterministic.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields[f], ", "))
	}
	return b.String()
}

// FieldErrors extracts the field-scoped messages from err when it wraps a
// ValidationError, or nil otherwise.
func FieldErrors(err error) map[string][]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// ServerMessage extracts the server-supplied message from err when it wraps
// an APIError, or "" otherwise. Used by callers that prefer the server's
// wording over a generic fallback.
func ServerMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}
