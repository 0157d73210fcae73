// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"testing"

	"github.com/dutymate/dutymate-v2-sub000/lib/selection"
)

func TestHighlight(t *testing.T) {
	layout := Layout{Nurses: 3, Days: 30, FooterRows: 5}
	state := selection.Selected(1, 4)

	tests := []struct {
		name     string
		row, col int
		want     HighlightKind
	}{
		{"selected cell", 1, 4, HighlightSelf},
		{"same row day", 1, 20, HighlightSameRow},
		{"same row name", 1, NameColumn, HighlightSameRow},
		{"same row trailing", 1, TrailingColumn, HighlightSameRow},
		{"same row stat", 1, StatColumn(30, 3), HighlightSameRow},
		{"same column nurse", 0, 4, HighlightSameColumn},
		{"same column footer", FooterRow(3, 0), 4, HighlightSameColumn},
		{"same column last footer", FooterRow(3, 4), 4, HighlightSameColumn},
		{"footer other day", FooterRow(3, 1), 5, HighlightNone},
		{"other nurse name", 2, NameColumn, HighlightNone},
		{"outside layout", FooterRow(3, 5), 4, HighlightNone},
		{"past stat columns", 1, StatColumn(30, 4), HighlightNone},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Highlight(state, layout, test.row, test.col); got != test.want {
				t.Fatalf("Highlight(%d, %d) = %v, want %v", test.row, test.col, got, test.want)
			}
		})
	}
}

func TestHighlightUnselected(t *testing.T) {
	layout := Layout{Nurses: 3, Days: 30, FooterRows: 5}
	for _, cell := range [][2]int{{0, 0}, {1, NameColumn}, {FooterRow(3, 0), 0}} {
		if got := Highlight(selection.Unselected(), layout, cell[0], cell[1]); got != HighlightNone {
			t.Errorf("Highlight(unselected, %v) = %v", cell, got)
		}
	}
}
