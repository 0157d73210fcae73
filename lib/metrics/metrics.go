// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import "github.com/dutymate/dutymate-v2-sub000/lib/roster"

// DayCounts are the assignments on one day. Total is Day+Evening+
// Night+Off; Mid shifts are counted separately and not included.
type DayCounts struct {
	Day     int `json:"D"`
	Evening int `json:"E"`
	Night   int `json:"N"`
	Off     int `json:"O"`
	Mid     int `json:"M,omitempty"`
	Total   int `json:"total"`
}

// Count returns the count for code. Unassigned cells are never
// counted.
func (counts DayCounts) Count(code roster.ShiftCode) int {
	switch code {
	case roster.Day:
		return counts.Day
	case roster.Evening:
		return counts.Evening
	case roster.Night:
		return counts.Night
	case roster.Off:
		return counts.Off
	case roster.Mid:
		return counts.Mid
	}
	return 0
}

// NurseCounts are one nurse's assignments over the period.
type NurseCounts struct {
	Day     int `json:"D"`
	Evening int `json:"E"`
	Night   int `json:"N"`
	Off     int `json:"O"`
}

// Count returns the count for one of the four tallied codes.
func (counts NurseCounts) Count(code roster.ShiftCode) int {
	switch code {
	case roster.Day:
		return counts.Day
	case roster.Evening:
		return counts.Evening
	case roster.Night:
		return counts.Night
	case roster.Off:
		return counts.Off
	}
	return 0
}

// Total returns the sum of the four tallies.
func (counts NurseCounts) Total() int {
	return counts.Day + counts.Evening + counts.Night + counts.Off
}

// PerDay tallies each day of the grid. The result has one entry per
// day, index 0 for day 1.
func PerDay(grid roster.Grid) []DayCounts {
	perDay := make([]DayCounts, grid.Days())
	for _, row := range grid.Rows {
		for col, code := range row.Shifts {
			if col >= len(perDay) {
				break
			}
			counts := &perDay[col]
			switch code {
			case roster.Day:
				counts.Day++
			case roster.Evening:
				counts.Evening++
			case roster.Night:
				counts.Night++
			case roster.Off:
				counts.Off++
			case roster.Mid:
				counts.Mid++
				continue
			default:
				continue
			}
			counts.Total++
		}
	}
	return perDay
}

// PerNurse tallies each row of the grid, in row order.
func PerNurse(grid roster.Grid) []NurseCounts {
	perNurse := make([]NurseCounts, len(grid.Rows))
	for index, row := range grid.Rows {
		counts := &perNurse[index]
		for _, code := range row.Shifts {
			switch code {
			case roster.Day:
				counts.Day++
			case roster.Evening:
				counts.Evening++
			case roster.Night:
				counts.Night++
			case roster.Off:
				counts.Off++
			}
		}
	}
	return perNurse
}

// CompletionProgress scores the grid 0-100 as filled cells minus
// violation days over all cells, rounded half up and clamped. A day
// inside a violation counts against progress even when filled. An
// empty grid scores 0.
func CompletionProgress(grid roster.Grid, violations []roster.Violation) int {
	total := grid.Cells()
	if total == 0 {
		return 0
	}
	filled := 0
	for _, row := range grid.Rows {
		for _, code := range row.Shifts {
			if code.Filled() {
				filled++
			}
		}
	}
	penalty := 0
	for _, violation := range violations {
		penalty += violation.Span()
	}

	score := filled - penalty
	if score <= 0 {
		return 0
	}
	progress := (200*score + total) / (2 * total)
	return min(progress, 100)
}

// Metrics bundles every derived statistic for one grid state.
type Metrics struct {
	PerDay   []DayCounts   `json:"perDay"`
	PerNurse []NurseCounts `json:"perNurse"`
	Progress int           `json:"progress"`
}

// Compute derives all statistics at once.
func Compute(grid roster.Grid, violations []roster.Violation) Metrics {
	return Metrics{
		PerDay:   PerDay(grid),
		PerNurse: PerNurse(grid),
		Progress: CompletionProgress(grid, violations),
	}
}
