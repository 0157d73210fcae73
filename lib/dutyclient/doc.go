// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package dutyclient is a typed client for the ward duty REST API.
//
// The client covers the endpoints the roster editor consumes: the
// period fetch (optionally at a history revision), the ward rule set,
// the ward's shift requests, batched edit submission, period reset,
// and auto-generation. Responses are converted to lib/roster types at
// the boundary; the wire DTOs stay private to this package.
//
// Non-2xx responses become *APIError. A 401 means the bearer token has
// expired; the error reports AuthExpired() true and callers stop all
// further work and ask the user to log in again. Transport failures,
// 5xx, 408 and 429 report Retryable() true.
//
// Auto-generate answers that are end states rather than failures (406
// insufficient staff, 405 already optimal) come back as a
// roster.AutoGenerateOutcome with a nil error.
package dutyclient
