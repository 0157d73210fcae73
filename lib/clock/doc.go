// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the two time operations the roster editor
// needs: reading the current time (edit timestamps, the navigable
// month window) and scheduling a callback (the sync debounce).
//
// Structs that use time hold a Clock field. Production wiring passes
// Real(); tests pass Fake() and call Advance to fire the debounce
// timer deterministically:
//
//	fake := clock.Fake(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
//	queue := rostersync.New(rostersync.Config{Clock: fake, ...})
//	queue.Enqueue(edit)
//	fake.Advance(time.Second) // the flush runs here
package clock
