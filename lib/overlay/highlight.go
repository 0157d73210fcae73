// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import "github.com/dutymate/dutymate-v2-sub000/lib/selection"

// Pseudo-column indexes left of the day columns. Day columns are
// 0..days-1; the per-nurse statistic columns follow at days..days+3
// (see StatColumn).
const (
	NameColumn     = -2
	TrailingColumn = -1
)

// StatColumns is the number of per-nurse statistic columns (D, E, N,
// O) right of the day columns.
const StatColumns = 4

// StatColumn returns the column index of statistic k (0-based) in a
// grid of days days.
func StatColumn(days, k int) int { return days + k }

// FooterRow returns the row index of aggregate footer row k (0-based)
// under nurses nurse rows.
func FooterRow(nurses, k int) int { return nurses + k }

// HighlightKind classifies a rendered cell relative to the selection.
type HighlightKind uint8

const (
	HighlightNone HighlightKind = iota
	// HighlightSelf is the selected cell.
	HighlightSelf
	// HighlightSameRow is any column of the selected nurse's row,
	// including the name, trailing and statistic pseudo-columns.
	HighlightSameRow
	// HighlightSameColumn is the selected day in every other nurse row
	// and in the footer rows.
	HighlightSameColumn
)

func (kind HighlightKind) String() string {
	switch kind {
	case HighlightSelf:
		return "self"
	case HighlightSameRow:
		return "same-row"
	case HighlightSameColumn:
		return "same-column"
	default:
		return "none"
	}
}

// Layout is the rendered grid shape.
type Layout struct {
	Nurses     int
	Days       int
	FooterRows int
}

// Highlight classifies (row, col) of layout against state. Rows below
// the nurse rows are footer rows; they join the selected day's column
// but never the selected row.
func Highlight(state selection.State, layout Layout, row, col int) HighlightKind {
	if !state.Active || !layout.contains(row, col) {
		return HighlightNone
	}
	if row == state.Row && col == state.Col {
		return HighlightSelf
	}
	if row == state.Row {
		return HighlightSameRow
	}
	if col == state.Col {
		return HighlightSameColumn
	}
	return HighlightNone
}

func (layout Layout) contains(row, col int) bool {
	if row < 0 || row >= layout.Nurses+layout.FooterRows {
		return false
	}
	if col < NameColumn || col >= layout.Days+StatColumns {
		return false
	}
	return true
}
