// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"errors"
	"fmt"
	"net/http"
)

// Error variables for common Gemini failures.
var (
	// ErrNoAPIKey indicates the client was built without a key.
	ErrNoAPIKey = errors.New("gemini API key not configured")

	// ErrAuthFailed indicates the key was rejected (HTTP 401/403).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made (HTTP 429).
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse indicates a 2xx response without usable text.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrResponseTooLarge indicates the response body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")

	// ErrUnknownTransport indicates an unsupported Options.Transport value.
	ErrUnknownTransport = errors.New("unknown transport")
)

// APIError represents an error response from the Gemini API.
type APIError struct {
	Status  int    // HTTP status code
	Code    string // API status string, e.g. "INVALID_ARGUMENT"
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gemini error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini error (HTTP %d): %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto the package sentinels so callers
// can use errors.Is without inspecting the status code.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

// apiErrorResponse is the error envelope returned by Google APIs.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
