// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package dutyclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dutymate/dutymate-v2-sub000/lib/netutil"
)

// APIError is a non-2xx response from the duty API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int

	// Message is the server's message field when the body is a JSON
	// error document, otherwise the start of the raw body.
	Message string

	body []byte
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("dutyclient: %s %s: HTTP %d", err.Method, err.Path, err.StatusCode)
	}
	return fmt.Sprintf("dutyclient: %s %s: HTTP %d: %s", err.Method, err.Path, err.StatusCode, err.Message)
}

// AuthExpired reports whether the server rejected the credentials.
func (err *APIError) AuthExpired() bool { return err.StatusCode == http.StatusUnauthorized }

// Retryable reports whether repeating the request may succeed.
func (err *APIError) Retryable() bool {
	switch err.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return err.StatusCode >= 500
}

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (err *TransportError) Error() string {
	return fmt.Sprintf("dutyclient: %s %s: %v", err.Method, err.Path, err.Err)
}

func (err *TransportError) Unwrap() error { return err.Err }

// Retryable is always true for transport failures.
func (err *TransportError) Retryable() bool { return true }

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsAuthExpired reports whether err is a 401 response.
func IsAuthExpired(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.AuthExpired()
}

// IsRetryable reports whether err is a transient failure.
func IsRetryable(err error) bool {
	var retryable interface{ Retryable() bool }
	return errors.As(err, &retryable) && retryable.Retryable()
}

// errorDocument is the error body the backend produces for
// ResponseStatusException.
type errorDocument struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func newAPIError(method, path string, statusCode int, body []byte) *APIError {
	apiError := &APIError{Method: method, Path: path, StatusCode: statusCode, body: body}
	var document errorDocument
	if json.Unmarshal(body, &document) == nil {
		apiError.Message = document.Message
		if apiError.Message == "" {
			apiError.Message = document.Error
		}
	}
	if apiError.Message == "" {
		apiError.Message = netutil.ErrorBody(bytes.NewReader(body))
		if len(apiError.Message) > 200 {
			apiError.Message = apiError.Message[:200]
		}
	}
	return apiError
}
