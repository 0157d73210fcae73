// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"errors"
	"fmt"

	"github.com/dutymate/dutymate-v2-sub000/lib/clock"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// ErrNoChange rejects an edit that would write the value a cell
// already holds.
var ErrNoChange = errors.New("editor: cell already holds that shift")

// IsValidation reports whether err is a rejected edit request:
// out-of-bounds coordinates or a no-op. Validation errors never reach
// the user.
func IsValidation(err error) bool {
	return errors.Is(err, roster.ErrInvalidCoordinate) || errors.Is(err, ErrNoChange)
}

// Enqueuer accepts validated edits. *rostersync.Queue implements it.
type Enqueuer interface {
	Enqueue(edit roster.PendingEdit) roster.PendingEdit
}

// Processor applies edit requests to a store.
type Processor struct {
	store *roster.Store
	queue Enqueuer
	clock clock.Clock
}

// NewProcessor returns a processor writing to store and recording
// edits in queue.
func NewProcessor(store *roster.Store, queue Enqueuer, clk clock.Clock) *Processor {
	if clk == nil {
		clk = clock.Real()
	}
	return &Processor{store: store, queue: queue, clock: clk}
}

// ApplyEdit sets (row, col) to code and enqueues the change. It
// rejects out-of-bounds coordinates and no-op edits without touching
// the grid. There is no other local failure; synchronization errors
// are the queue's concern.
func (processor *Processor) ApplyEdit(row, col int, code roster.ShiftCode, automatic bool) (roster.PendingEdit, error) {
	current, err := processor.store.GetCell(row, col)
	if err != nil {
		return roster.PendingEdit{}, err
	}
	if current == code {
		return roster.PendingEdit{}, ErrNoChange
	}
	nurse, err := processor.store.Row(row)
	if err != nil {
		return roster.PendingEdit{}, err
	}

	previous, err := processor.store.SetCell(row, col, code)
	if err != nil {
		return roster.PendingEdit{}, fmt.Errorf("editor: writing cell: %w", err)
	}
	edit := roster.PendingEdit{
		Period:    processor.store.Period(),
		NurseID:   nurse.NurseID,
		Name:      nurse.Name,
		Day:       col + 1,
		Before:    previous,
		After:     code,
		Automatic: automatic,
		Timestamp: processor.clock.Now(),
		State:     roster.EditPending,
	}
	return processor.queue.Enqueue(edit), nil
}
