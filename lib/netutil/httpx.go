// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds HTTP response reads for the duty API client.
//
// Every JSON response body is read through a limit so a misbehaving
// server cannot exhaust memory. A month of roster data with history is
// well under a megabyte; the limit is far above that.
package netutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MaxResponseSize bounds JSON response body reads.
const MaxResponseSize int64 = 16 << 20

// maxErrorBody bounds how much of an error body is kept for messages.
const maxErrorBody = 4 << 10

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a response body up to MaxResponseSize bytes and
// JSON-decodes it into v. An empty body leaves v untouched.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// ErrorBody returns the start of an error response body for
// diagnostics. Read errors are ignored; a partial body is still useful.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return strings.TrimSpace(string(data))
}
