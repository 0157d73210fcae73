// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrInvalidCoordinate is returned for reads and writes outside the
// grid. Match it with errors.Is; the concrete error is a
// *CoordinateError.
var ErrInvalidCoordinate = errors.New("roster: invalid coordinate")

// CoordinateError reports the rejected coordinate and the grid size.
type CoordinateError struct {
	Row, Col   int
	Rows, Days int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("roster: cell (%d, %d) outside %dx%d grid", e.Row, e.Col, e.Rows, e.Days)
}

func (e *CoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// Store owns the active snapshot. Rows and columns are 0-based; column
// c is day c+1.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	index    map[int64]int
}

// NewStore returns an empty store. Load installs the first snapshot.
func NewStore() *Store {
	return &Store{index: map[int64]int{}}
}

// Load installs snapshot as the active period and returns a copy of
// its grid. It fails if the snapshot breaks the row-length invariant,
// leaving the previous contents in place.
func (store *Store) Load(snapshot Snapshot) (Grid, error) {
	if err := store.Replace(snapshot); err != nil {
		return Grid{}, err
	}
	return store.Grid(), nil
}

// Replace swaps in a new snapshot wholesale. Used for period switches,
// reset, auto-generate and post-sync reconciliation.
func (store *Store) Replace(snapshot Snapshot) error {
	if err := snapshot.Grid.Validate(); err != nil {
		return err
	}
	snapshot = snapshot.Clone()
	index := make(map[int64]int, len(snapshot.Grid.Rows))
	for row, nurse := range snapshot.Grid.Rows {
		index[nurse.NurseID] = row
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.snapshot = snapshot
	store.index = index
	return nil
}

// GetCell returns the code at (row, col).
func (store *Store) GetCell(row, col int) (ShiftCode, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if err := store.checkLocked(row, col); err != nil {
		return Unassigned, err
	}
	return store.snapshot.Grid.Rows[row].Shifts[col], nil
}

// SetCell writes code at (row, col) and returns the code it replaced.
func (store *Store) SetCell(row, col int, code ShiftCode) (ShiftCode, error) {
	if !code.Valid() {
		return Unassigned, fmt.Errorf("roster: invalid shift code %d", uint8(code))
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if err := store.checkLocked(row, col); err != nil {
		return Unassigned, err
	}
	shifts := store.snapshot.Grid.Rows[row].Shifts
	previous := shifts[col]
	shifts[col] = code
	return previous, nil
}

func (store *Store) checkLocked(row, col int) error {
	rows := len(store.snapshot.Grid.Rows)
	days := store.snapshot.Grid.Days()
	if row < 0 || row >= rows || col < 0 || col >= days {
		return &CoordinateError{Row: row, Col: col, Rows: rows, Days: days}
	}
	return nil
}

// Period returns the active period.
func (store *Store) Period() Period {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshot.Grid.Period
}

// Dims returns the number of nurse rows and day columns.
func (store *Store) Dims() (rows, days int) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.snapshot.Grid.Rows), store.snapshot.Grid.Days()
}

// Row returns a copy of one nurse row.
func (store *Store) Row(row int) (NurseRow, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if row < 0 || row >= len(store.snapshot.Grid.Rows) {
		return NurseRow{}, &CoordinateError{Row: row, Rows: len(store.snapshot.Grid.Rows), Days: store.snapshot.Grid.Days()}
	}
	return store.snapshot.Grid.Rows[row].clone(), nil
}

// RowIndex returns the row of nurseID.
func (store *Store) RowIndex(nurseID int64) (int, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	row, ok := store.index[nurseID]
	return row, ok
}

// Grid returns a deep copy of the active grid.
func (store *Store) Grid() Grid {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshot.Grid.Clone()
}

// Snapshot returns a deep copy of everything the store holds.
func (store *Store) Snapshot() Snapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshot.Clone()
}

// Violations returns a copy of the active violations.
func (store *Store) Violations() []Violation {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return slices.Clone(store.snapshot.Violations)
}

// HasAnyFilled reports whether any cell holds an assignment. Reset is
// pointless on an all-empty grid.
func (store *Store) HasAnyFilled() bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	for _, row := range store.snapshot.Grid.Rows {
		if slices.ContainsFunc(row.Shifts, ShiftCode.Filled) {
			return true
		}
	}
	return false
}
