// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package editor runs one roster editing session.
//
// Processor is the single path from an edit request to the grid: it
// validates the request, writes the roster.Store optimistically, and
// hands a PendingEdit to the sync queue. Session owns the store, the
// selection controller, the processor and the queue for the active
// period, and talks to the backend through the Backend interface.
//
// Session serializes its own state behind a mutex. Key handling never
// blocks. Operations that reach the network (Open, NavigateMonth,
// Reset, AutoGenerate, Revert, RefreshOverlays, Retry) block the
// caller for the round trip and must not be called from a UI event
// loop directly. Results and failures are reported as Events; failures
// that reach the user go to one shared notice surface rather than to
// individual cells.
package editor
