// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package editortest provides an in-memory editor.Backend for tests of
// packages built on the editor session.
package editortest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dutymate/dutymate-v2-sub000/lib/clock"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/rostersync"
)

// Epoch is the fake "now" of sessions built by Open: mid October 2026.
var Epoch = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

// October is the period containing Epoch.
var October = roster.Period{Year: 2026, Month: time.October}

// Nurses is the ward every Backend starts with.
var Nurses = []roster.NurseRow{
	{NurseID: 11, Name: "김하나", Role: roster.HeadNurse},
	{NurseID: 12, Name: "이두리", Role: roster.RegisteredNurse},
	{NurseID: 13, Name: "박세나", Role: roster.RegisteredNurse},
}

// Backend keeps one authoritative snapshot per period and applies
// submitted batches to it. Safe for concurrent use.
type Backend struct {
	mu        sync.Mutex
	snapshots map[roster.Period]roster.Snapshot
	requests  []roster.DatedRequest
	batches   []rostersync.Batch
	resets    []roster.Period
	forced    []bool
	outcome   roster.AutoGenerateOutcome
	fetchErr  error
	submitErr error
}

// NewBackend returns a backend with empty rosters of Nurses for
// October and November 2026.
func NewBackend() *Backend {
	backend := &Backend{snapshots: make(map[roster.Period]roster.Snapshot)}
	for _, period := range []roster.Period{October, October.AddMonths(1)} {
		backend.snapshots[period] = roster.Snapshot{Grid: roster.EmptyGrid(period, Nurses)}
	}
	return backend
}

func (backend *Backend) FetchPeriod(_ context.Context, period roster.Period, _ *int) (roster.Snapshot, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.fetchErr != nil {
		return roster.Snapshot{}, backend.fetchErr
	}
	snapshot, ok := backend.snapshots[period]
	if !ok {
		return roster.Snapshot{}, fmt.Errorf("no roster for %s", period)
	}
	return snapshot.Clone(), nil
}

func (backend *Backend) FetchRules(context.Context) (roster.Rules, error) {
	return roster.DefaultRules(), nil
}

func (backend *Backend) FetchRequests(context.Context) ([]roster.DatedRequest, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return append([]roster.DatedRequest(nil), backend.requests...), nil
}

func (backend *Backend) SubmitBatch(_ context.Context, batch rostersync.Batch) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.batches = append(backend.batches, batch)
	if backend.submitErr != nil {
		return backend.submitErr
	}
	snapshot := backend.snapshots[batch.Period]
	for _, edit := range batch.Edits {
		for row := range snapshot.Grid.Rows {
			if snapshot.Grid.Rows[row].NurseID == edit.NurseID {
				snapshot.Grid.Rows[row].Shifts[edit.Day-1] = edit.After
			}
		}
	}
	return nil
}

func (backend *Backend) ResetPeriod(_ context.Context, period roster.Period) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.resets = append(backend.resets, period)
	snapshot := backend.snapshots[period]
	snapshot.Grid = roster.EmptyGrid(period, snapshot.Grid.Rows)
	backend.snapshots[period] = snapshot
	return nil
}

func (backend *Backend) AutoGenerate(_ context.Context, _ roster.Period, force bool) (roster.AutoGenerateOutcome, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.forced = append(backend.forced, force)
	return backend.outcome, nil
}

// SetHistory replaces the recorded changes of period.
func (backend *Backend) SetHistory(period roster.Period, entries ...roster.HistoryEntry) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	snapshot := backend.snapshots[period]
	snapshot.History = entries
	backend.snapshots[period] = snapshot
}

// Set writes code into the authoritative roster (day is 1-based).
func (backend *Backend) Set(period roster.Period, row, day int, code roster.ShiftCode) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.snapshots[period].Grid.Rows[row].Shifts[day-1] = code
}

// SetViolations replaces the violations reported for period.
func (backend *Backend) SetViolations(period roster.Period, violations ...roster.Violation) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	snapshot := backend.snapshots[period]
	snapshot.Violations = violations
	snapshot.InvalidCount = len(violations)
	backend.snapshots[period] = snapshot
}

// SetRequests replaces the shift requests.
func (backend *Backend) SetRequests(requests ...roster.DatedRequest) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.requests = requests
}

// SetOutcome sets what AutoGenerate returns.
func (backend *Backend) SetOutcome(outcome roster.AutoGenerateOutcome) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.outcome = outcome
}

// SetFetchErr makes FetchPeriod fail with err until cleared with nil.
func (backend *Backend) SetFetchErr(err error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.fetchErr = err
}

// SetSubmitErr makes SubmitBatch fail with err until cleared with nil.
func (backend *Backend) SetSubmitErr(err error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.submitErr = err
}

// Submitted returns every batch received so far.
func (backend *Backend) Submitted() []rostersync.Batch {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return append([]rostersync.Batch(nil), backend.batches...)
}

// Resets returns the periods reset so far.
func (backend *Backend) Resets() []roster.Period {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return append([]roster.Period(nil), backend.resets...)
}

// AutoGenerateCalls returns the force flag of every AutoGenerate call.
func (backend *Backend) AutoGenerateCalls() []bool {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return append([]bool(nil), backend.forced...)
}

// Open builds a session over backend on a fake clock at Epoch and
// opens October. The session is closed when the test ends.
func Open(t testing.TB, backend *Backend, onEvent func(editor.Event)) (*editor.Session, *clock.FakeClock) {
	t.Helper()
	fake := clock.Fake(Epoch)
	session := editor.New(editor.Config{
		Backend:        backend,
		Clock:          fake,
		MaxMonthsAhead: editor.DefaultMaxMonthsAhead,
		OnEvent:        onEvent,
	})
	if err := session.Open(context.Background(), October); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session, fake
}
