// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package overlay maps backend annotations and the cursor onto grid
// coordinates for rendering.
//
// Index places violations and shift-request statuses on (nurse, day)
// cells. A violation is drawn once, as a marker anchored at its start
// day that spans to its end day; violations of one nurse that start on
// the same day are merged into a single marker.
//
// Highlight classifies any rendered cell (including the name,
// trailing-shift and statistic pseudo-columns, and the footer rows)
// relative to the current selection.
package overlay
