// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package selection implements the cursor over a roster grid.
//
// A Controller is either Unselected or Selected(row, col), with row in
// [0, rows) and col in [0, days). Arrow keys move the cursor, wrapping
// from the end of one row to the start of the next (and back) but
// never past the first or last cell of the grid. Shift keys, Delete
// and Backspace produce an EditRequest for the caller to apply; the
// Controller never touches grid contents itself.
//
// Shift keys are resolved through a static table (KeyTable) so that a
// Latin letter and the Korean jamo on the same physical key always
// produce the same ShiftCode regardless of the active input method.
package selection
