// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"slices"
	"sort"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// Marker is the rendered form of one or more violations of a nurse
// that start on the same day.
type Marker struct {
	NurseID  int64
	StartDay int
	EndDay   int

	// Messages are the distinct messages of the merged violations, in
	// first-seen order.
	Messages []string

	// Count is the number of violations merged into the marker.
	Count int
}

// Span returns the number of days the marker covers.
func (marker Marker) Span() int { return marker.EndDay - marker.StartDay + 1 }

// Width returns the rendered width for day cells of cellWidth.
func (marker Marker) Width(cellWidth int) int { return marker.Span() * cellWidth }

type cellKey struct {
	nurseID int64
	day     int
}

// Index answers per-cell overlay queries for one period.
type Index struct {
	days       int
	markers    map[cellKey]Marker
	byNurse    map[int64][]Marker
	violations map[int64][]roster.Violation
	requests   map[cellKey]roster.RequestStatus
}

// Build indexes violations and requests for a period of days days.
// Violation intervals are clamped to [1, days]; intervals that fall
// entirely outside the period are dropped, as are requests for days
// outside it. When two requests address the same cell the later one
// wins.
func Build(days int, violations []roster.Violation, requests []roster.RequestStatus) *Index {
	index := &Index{
		days:       days,
		markers:    make(map[cellKey]Marker),
		byNurse:    make(map[int64][]Marker),
		violations: make(map[int64][]roster.Violation),
		requests:   make(map[cellKey]roster.RequestStatus, len(requests)),
	}

	for _, violation := range violations {
		violation.StartDay = max(violation.StartDay, 1)
		violation.EndDay = min(violation.EndDay, days)
		if violation.Span() == 0 {
			continue
		}
		index.violations[violation.NurseID] = append(index.violations[violation.NurseID], violation)

		key := cellKey{violation.NurseID, violation.StartDay}
		marker, merged := index.markers[key]
		if !merged {
			marker = Marker{NurseID: violation.NurseID, StartDay: violation.StartDay, EndDay: violation.EndDay}
		}
		marker.EndDay = max(marker.EndDay, violation.EndDay)
		marker.Count++
		if violation.Message != "" && !slices.Contains(marker.Messages, violation.Message) {
			marker.Messages = append(marker.Messages, violation.Message)
		}
		index.markers[key] = marker
	}

	for _, marker := range index.markers {
		index.byNurse[marker.NurseID] = append(index.byNurse[marker.NurseID], marker)
	}
	for _, markers := range index.byNurse {
		sort.Slice(markers, func(i, j int) bool { return markers[i].StartDay < markers[j].StartDay })
	}

	for _, request := range requests {
		if request.Day < 1 || request.Day > days {
			continue
		}
		index.requests[cellKey{request.NurseID, request.Day}] = request
	}
	return index
}

// MarkerAt returns the marker anchored at (nurseID, day). Days inside
// a marker's span other than its start have no marker of their own.
func (index *Index) MarkerAt(nurseID int64, day int) (Marker, bool) {
	marker, ok := index.markers[cellKey{nurseID, day}]
	return marker, ok
}

// Markers returns a nurse's markers ordered by start day.
func (index *Index) Markers(nurseID int64) []Marker {
	return slices.Clone(index.byNurse[nurseID])
}

// ViolationsAt returns every violation of nurseID whose interval
// contains day.
func (index *Index) ViolationsAt(nurseID int64, day int) []roster.Violation {
	var covering []roster.Violation
	for _, violation := range index.violations[nurseID] {
		if violation.Covers(day) {
			covering = append(covering, violation)
		}
	}
	return covering
}

// Covered reports whether any violation of nurseID contains day.
func (index *Index) Covered(nurseID int64, day int) bool {
	for _, violation := range index.violations[nurseID] {
		if violation.Covers(day) {
			return true
		}
	}
	return false
}

// RequestAt returns the request status for the exact cell.
func (index *Index) RequestAt(nurseID int64, day int) (roster.RequestStatus, bool) {
	request, ok := index.requests[cellKey{nurseID, day}]
	return request, ok
}

// MarkerCount returns the number of markers in the index.
func (index *Index) MarkerCount() int { return len(index.markers) }
