// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"fmt"
	"slices"
)

// Role is a nurse's ward role.
type Role string

const (
	HeadNurse       Role = "HN"
	RegisteredNurse Role = "RN"
)

// NurseRow is one staff member's line in the grid.
type NurseRow struct {
	NurseID int64  `json:"nurseId"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`

	// Trailing holds the final days of the previous period, oldest
	// first. Read-only context.
	Trailing []ShiftCode `json:"trailing"`

	// Shifts holds one code per day of the period.
	Shifts []ShiftCode `json:"shifts"`
}

func (row NurseRow) clone() NurseRow {
	row.Trailing = slices.Clone(row.Trailing)
	row.Shifts = slices.Clone(row.Shifts)
	return row
}

// Grid is the roster of one period.
type Grid struct {
	Period Period     `json:"period"`
	Rows   []NurseRow `json:"rows"`
}

// Clone returns a deep copy.
func (grid Grid) Clone() Grid {
	rows := make([]NurseRow, len(grid.Rows))
	for index, row := range grid.Rows {
		rows[index] = row.clone()
	}
	return Grid{Period: grid.Period, Rows: rows}
}

// Days returns the period's day count, which is the length of every
// row's Shifts.
func (grid Grid) Days() int {
	if grid.Period.IsZero() {
		return 0
	}
	return grid.Period.Days()
}

// Cells returns the number of editable cells.
func (grid Grid) Cells() int { return len(grid.Rows) * grid.Days() }

// Validate checks the row-length invariant and ID uniqueness.
func (grid Grid) Validate() error {
	days := grid.Days()
	seen := make(map[int64]bool, len(grid.Rows))
	for index, row := range grid.Rows {
		if len(row.Shifts) != days {
			return fmt.Errorf("roster: row %d (%s) has %d shifts, period %s has %d days",
				index, row.Name, len(row.Shifts), grid.Period, days)
		}
		if seen[row.NurseID] {
			return fmt.Errorf("roster: nurse %d appears twice", row.NurseID)
		}
		seen[row.NurseID] = true
		for day, code := range row.Shifts {
			if !code.Valid() {
				return fmt.Errorf("roster: row %d day %d: invalid shift code %d", index, day+1, uint8(code))
			}
		}
	}
	return nil
}

// HistoryEntry is one recorded revision of a period: a single cell
// change, in the order the backend applied them.
type HistoryEntry struct {
	Index     int       `json:"index"`
	NurseID   int64     `json:"nurseId"`
	Name      string    `json:"name"`
	Before    ShiftCode `json:"before"`
	After     ShiftCode `json:"after"`
	Day       int       `json:"day"`
	Automatic bool      `json:"automatic"`
}

// Snapshot is everything a period fetch returns.
type Snapshot struct {
	Grid       Grid           `json:"grid"`
	Violations []Violation    `json:"violations"`
	History    []HistoryEntry `json:"history,omitempty"`

	// InvalidCount is the backend's total of rule breaches for the
	// period.
	InvalidCount int `json:"invalidCount"`
}

// Clone returns a deep copy.
func (snapshot Snapshot) Clone() Snapshot {
	return Snapshot{
		Grid:         snapshot.Grid.Clone(),
		Violations:   slices.Clone(snapshot.Violations),
		History:      slices.Clone(snapshot.History),
		InvalidCount: snapshot.InvalidCount,
	}
}

// EmptyGrid builds a grid for period with every cell Unassigned.
func EmptyGrid(period Period, nurses []NurseRow) Grid {
	rows := make([]NurseRow, len(nurses))
	for index, nurse := range nurses {
		nurse.Shifts = make([]ShiftCode, period.Days())
		nurse.Trailing = slices.Clone(nurse.Trailing)
		rows[index] = nurse
	}
	return Grid{Period: period, Rows: rows}
}
