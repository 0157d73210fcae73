// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package rostersync batches optimistic roster edits and submits them
// to the backend after a quiet period.
//
// A Queue holds an ordered list of pending edits and one debounce
// timer. Every Enqueue cancels the timer and schedules a new one, so a
// burst of keystrokes collapses into one Batch carrying every edit in
// issue order. When the timer fires the whole pending list becomes the
// in-flight batch.
//
// At most one batch is in flight. Edits enqueued while a batch is
// outstanding accumulate for the next one; a timer that fires during
// the request only marks a flush as due, and the queue flushes again
// once the outstanding batch and its result callback have finished.
//
// A failed batch is not rolled back. Its edits return to the front of
// the pending list marked EditFailed and go out again with the next
// flush, which an explicit Flush (a user retry) or the next Enqueue
// triggers. Each batch carries an ID derived from its content, so a
// backend can recognize a resubmitted batch.
package rostersync
