// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package roster holds the data model of a monthly duty roster and
// the Store that owns the active grid.
//
// A roster is one Period (a year and month) and one NurseRow per
// staff member. Each row carries the shifts of the current month, one
// ShiftCode per day, and the read-only trailing shifts from the end
// of the previous month. Violations and RequestStatus records come
// from the backend and annotate (nurse, day) cells; they are never
// edited here.
//
// Store is the single source of truth for the active grid. The only
// per-cell write path is SetCell; everything else replaces the grid
// wholesale (period switch, reset, auto-generate, reconciliation after
// a successful sync). Store is safe for concurrent use: the terminal
// UI writes edits while the sync goroutine replaces the grid after a
// flush.
package roster
