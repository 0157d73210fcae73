// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"errors"
	"testing"
)

var october = Period{Year: 2026, Month: 10}

func testSnapshot(t *testing.T, period Period, nurses int) Snapshot {
	t.Helper()
	rows := make([]NurseRow, nurses)
	for index := range rows {
		rows[index] = NurseRow{
			NurseID:  int64(100 + index),
			Name:     []string{"김하나", "이두리", "박세나", "최네온"}[index%4],
			Role:     RegisteredNurse,
			Trailing: []ShiftCode{Off, Night, Night, Off},
		}
	}
	return Snapshot{Grid: EmptyGrid(period, rows)}
}

func TestSetCellThenGetCell(t *testing.T) {
	store := NewStore()
	if _, err := store.Load(testSnapshot(t, october, 3)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	rows, days := store.Dims()
	codes := []ShiftCode{Day, Evening, Night, Off, Mid, Unassigned}
	for row := range rows {
		for col := range days {
			code := codes[(row+col)%len(codes)]
			if _, err := store.SetCell(row, col, code); err != nil {
				t.Fatalf("SetCell(%d, %d): %v", row, col, err)
			}
			got, err := store.GetCell(row, col)
			if err != nil {
				t.Fatalf("GetCell(%d, %d): %v", row, col, err)
			}
			if got != code {
				t.Fatalf("GetCell(%d, %d) = %v, want %v", row, col, got, code)
			}
		}
	}
}

func TestSetCellReturnsPrevious(t *testing.T) {
	store := NewStore()
	if _, err := store.Load(testSnapshot(t, october, 1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	previous, err := store.SetCell(0, 4, Night)
	if err != nil || previous != Unassigned {
		t.Fatalf("first SetCell = (%v, %v), want (unassigned, nil)", previous, err)
	}
	previous, err = store.SetCell(0, 4, Off)
	if err != nil || previous != Night {
		t.Fatalf("second SetCell = (%v, %v), want (night, nil)", previous, err)
	}
}

func TestInvalidCoordinate(t *testing.T) {
	store := NewStore()
	if _, err := store.Load(testSnapshot(t, october, 2)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, coordinate := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 31}, {5, 40}} {
		_, err := store.SetCell(coordinate[0], coordinate[1], Day)
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("SetCell%v error = %v, want ErrInvalidCoordinate", coordinate, err)
		}
		var coordinateError *CoordinateError
		if !errors.As(err, &coordinateError) || coordinateError.Rows != 2 || coordinateError.Days != 31 {
			t.Errorf("SetCell%v error = %#v, want *CoordinateError for 2x31", coordinate, err)
		}
		if _, err := store.GetCell(coordinate[0], coordinate[1]); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("GetCell%v error = %v, want ErrInvalidCoordinate", coordinate, err)
		}
	}
	if store.HasAnyFilled() {
		t.Error("rejected writes filled a cell")
	}
}

func TestReplaceRejectsShortRow(t *testing.T) {
	store := NewStore()
	snapshot := testSnapshot(t, october, 2)
	if _, err := store.Load(snapshot); err != nil {
		t.Fatalf("Load: %v", err)
	}

	broken := testSnapshot(t, october, 2)
	broken.Grid.Rows[1].Shifts = broken.Grid.Rows[1].Shifts[:30]
	if err := store.Replace(broken); err == nil {
		t.Fatal("Replace accepted a 30-day row in a 31-day month")
	}
	if rows, days := store.Dims(); rows != 2 || days != 31 {
		t.Errorf("Dims after rejected Replace = %dx%d, want 2x31", rows, days)
	}
}

func TestGridIsACopy(t *testing.T) {
	store := NewStore()
	if _, err := store.Load(testSnapshot(t, october, 1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	grid := store.Grid()
	grid.Rows[0].Shifts[0] = Night

	if code, _ := store.GetCell(0, 0); code != Unassigned {
		t.Errorf("mutating Grid() leaked into the store: cell = %v", code)
	}
}

func TestRowIndexFollowsReplace(t *testing.T) {
	store := NewStore()
	snapshot := testSnapshot(t, october, 3)
	if _, err := store.Load(snapshot); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if row, ok := store.RowIndex(102); !ok || row != 2 {
		t.Fatalf("RowIndex(102) = (%d, %v), want (2, true)", row, ok)
	}

	reordered := snapshot.Clone()
	reordered.Grid.Rows[0], reordered.Grid.Rows[2] = reordered.Grid.Rows[2], reordered.Grid.Rows[0]
	if err := store.Replace(reordered); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if row, ok := store.RowIndex(102); !ok || row != 0 {
		t.Fatalf("RowIndex(102) after reorder = (%d, %v), want (0, true)", row, ok)
	}
}

func TestHasAnyFilled(t *testing.T) {
	store := NewStore()
	if _, err := store.Load(testSnapshot(t, october, 2)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.HasAnyFilled() {
		t.Fatal("empty grid reports filled")
	}
	if _, err := store.SetCell(1, 30, Mid); err != nil {
		t.Fatal(err)
	}
	if !store.HasAnyFilled() {
		t.Fatal("grid with a Mid shift reports empty")
	}
}
