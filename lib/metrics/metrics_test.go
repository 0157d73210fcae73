// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

var november = roster.Period{Year: 2026, Month: time.November}

func gridOf(t *testing.T, period roster.Period, rows ...string) roster.Grid {
	t.Helper()
	grid := roster.Grid{Period: period}
	for index, encoded := range rows {
		shifts, err := roster.ParseShifts(encoded)
		if err != nil {
			t.Fatalf("row %d: %v", index, err)
		}
		if len(shifts) != period.Days() {
			t.Fatalf("row %d has %d days, want %d", index, len(shifts), period.Days())
		}
		grid.Rows = append(grid.Rows, roster.NurseRow{NurseID: int64(index + 1), Shifts: shifts})
	}
	return grid
}

func emptyRow(days int) string {
	row := make([]byte, days)
	for index := range row {
		row[index] = 'X'
	}
	return string(row)
}

func TestPerDayCounts(t *testing.T) {
	first := "DENOM" + emptyRow(25)
	second := "DDXOO" + emptyRow(25)
	grid := gridOf(t, november, first, second)

	perDay := PerDay(grid)
	if len(perDay) != 30 {
		t.Fatalf("len(PerDay) = %d, want 30", len(perDay))
	}
	want := []DayCounts{
		{Day: 2, Total: 2},
		{Day: 1, Evening: 1, Total: 2},
		{Night: 1, Total: 1},
		{Off: 2, Total: 2},
		{Off: 1, Mid: 1, Total: 1},
	}
	for index := range want {
		if perDay[index] != want[index] {
			t.Errorf("day %d = %+v, want %+v", index+1, perDay[index], want[index])
		}
	}
	if perDay[29] != (DayCounts{}) {
		t.Errorf("empty day = %+v", perDay[29])
	}
}

func TestAggregateConsistency(t *testing.T) {
	random := rand.New(rand.NewPCG(3, 5))
	codes := []roster.ShiftCode{roster.Day, roster.Evening, roster.Night, roster.Off, roster.Mid, roster.Unassigned}
	for trial := range 50 {
		grid := roster.EmptyGrid(november, make([]roster.NurseRow, 1+random.IntN(12)))
		for row := range grid.Rows {
			for col := range grid.Rows[row].Shifts {
				grid.Rows[row].Shifts[col] = codes[random.IntN(len(codes))]
			}
		}
		dayTotal := 0
		for _, counts := range PerDay(grid) {
			dayTotal += counts.Total
		}
		nurseTotal := 0
		for _, counts := range PerNurse(grid) {
			nurseTotal += counts.Total()
		}
		if dayTotal != nurseTotal {
			t.Fatalf("trial %d: per-day total %d != per-nurse total %d", trial, dayTotal, nurseTotal)
		}
	}
}

func TestCompletionProgress(t *testing.T) {
	period := roster.Period{Year: 2026, Month: time.February}
	half := "DDDDDDDDDDDDDD" + emptyRow(14)
	full := "DDDDDDDDDDDDDDDDDDDDDDDDDDDD"

	tests := []struct {
		name       string
		rows       []string
		violations []roster.Violation
		want       int
	}{
		{"empty", []string{emptyRow(28)}, nil, 0},
		{"half", []string{half}, nil, 50},
		{"full", []string{full}, nil, 100},
		{"violation penalty", []string{full}, []roster.Violation{{NurseID: 1, StartDay: 1, EndDay: 7}}, 75},
		{"penalty clamps at zero", []string{half}, []roster.Violation{{StartDay: 1, EndDay: 28}}, 0},
		{"rounds to nearest", []string{"D" + emptyRow(27), emptyRow(28)}, nil, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := gridOf(t, period, test.rows...)
			if got := CompletionProgress(grid, test.violations); got != test.want {
				t.Fatalf("CompletionProgress = %d, want %d", got, test.want)
			}
		})
	}
}

func TestCompletionProgressNoCells(t *testing.T) {
	if got := CompletionProgress(roster.Grid{Period: november}, nil); got != 0 {
		t.Fatalf("CompletionProgress of zero rows = %d", got)
	}
}

func TestCompletionProgressMonotonic(t *testing.T) {
	random := rand.New(rand.NewPCG(1, 2))
	grid := roster.EmptyGrid(november, make([]roster.NurseRow, 4))
	violations := []roster.Violation{{NurseID: 0, StartDay: 3, EndDay: 9}, {NurseID: 0, StartDay: 20, EndDay: 21}}

	cells := make([][2]int, 0, grid.Cells())
	for row := range grid.Rows {
		for col := range grid.Rows[row].Shifts {
			cells = append(cells, [2]int{row, col})
		}
	}
	random.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	previous := CompletionProgress(grid, violations)
	for _, cell := range cells {
		grid.Rows[cell[0]].Shifts[cell[1]] = roster.Night
		progress := CompletionProgress(grid, violations)
		if progress < previous {
			t.Fatalf("progress dropped from %d to %d after filling %v", previous, progress, cell)
		}
		if progress < 0 || progress > 100 {
			t.Fatalf("progress %d out of range", progress)
		}
		previous = progress
	}
	if previous != 93 {
		t.Errorf("final progress = %d, want 93", previous)
	}
}

func TestCompute(t *testing.T) {
	grid := gridOf(t, november, "D"+emptyRow(29))
	computed := Compute(grid, nil)
	if computed.PerDay[0].Day != 1 || computed.PerNurse[0].Day != 1 || computed.Progress != 3 {
		t.Fatalf("Compute = %+v", computed)
	}
}
