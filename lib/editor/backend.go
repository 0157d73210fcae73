// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"context"
	"errors"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/rostersync"
)

// Backend is the duty API as the session consumes it.
// *dutyclient.Client implements it.
type Backend interface {
	FetchPeriod(ctx context.Context, period roster.Period, revision *int) (roster.Snapshot, error)
	FetchRules(ctx context.Context) (roster.Rules, error)
	FetchRequests(ctx context.Context) ([]roster.DatedRequest, error)
	SubmitBatch(ctx context.Context, batch rostersync.Batch) error
	ResetPeriod(ctx context.Context, period roster.Period) error
	AutoGenerate(ctx context.Context, period roster.Period, force bool) (roster.AutoGenerateOutcome, error)
}

// IsAuthExpired reports whether err carries an expired-credentials
// signal from the backend.
func IsAuthExpired(err error) bool {
	var expired interface{ AuthExpired() bool }
	return errors.As(err, &expired) && expired.AuthExpired()
}

// IsRetryable reports whether a backend error is worth retrying.
// Errors that do not classify themselves are assumed to be network
// failures and therefore retryable.
func IsRetryable(err error) bool {
	if err == nil || IsAuthExpired(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var retryable interface{ Retryable() bool }
	if errors.As(err, &retryable) {
		return retryable.Retryable()
	}
	return true
}
