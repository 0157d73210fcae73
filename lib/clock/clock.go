// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the time source injected into anything that stamps edits or
// schedules a flush. Production code passes Real(); tests pass Fake()
// and move time explicitly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once d has elapsed and returns a Timer that
	// can cancel the call. With d <= 0, f runs immediately: in a new
	// goroutine for the real clock, synchronously for the fake one.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is the handle of one scheduled AfterFunc call.
type Timer struct {
	stop func() bool
}

// Stop cancels the pending call. It reports whether the call was
// still pending; false means it already ran or was stopped before.
func (t *Timer) Stop() bool {
	if t == nil || t.stop == nil {
		return false
	}
	return t.stop()
}
