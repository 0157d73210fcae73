// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"testing"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

func TestMarkerAnchorsAtStartDay(t *testing.T) {
	index := Build(30, []roster.Violation{
		{NurseID: 2, StartDay: 5, EndDay: 7, Message: "연속 근무 초과"},
	}, nil)

	marker, ok := index.MarkerAt(2, 5)
	if !ok {
		t.Fatal("no marker at start day 5")
	}
	if marker.Span() != 3 || marker.Count != 1 || marker.Width(4) != 12 {
		t.Fatalf("marker = %+v (span %d, width %d)", marker, marker.Span(), marker.Width(4))
	}
	for _, day := range []int{6, 7} {
		if _, ok := index.MarkerAt(2, day); ok {
			t.Errorf("day %d has its own marker", day)
		}
		if !index.Covered(2, day) {
			t.Errorf("day %d not covered", day)
		}
	}
	if index.Covered(2, 8) || index.Covered(1, 5) {
		t.Error("coverage leaked outside the violation")
	}
}

func TestMergeSameStartDay(t *testing.T) {
	index := Build(31, []roster.Violation{
		{NurseID: 7, StartDay: 10, EndDay: 11, Message: "N 이후 D 근무"},
		{NurseID: 7, StartDay: 10, EndDay: 14, Message: "연속 근무 초과"},
		{NurseID: 7, StartDay: 10, EndDay: 10, Message: "N 이후 D 근무"},
		{NurseID: 7, StartDay: 20, EndDay: 21, Message: "야간 근무 부족"},
	}, nil)

	marker, ok := index.MarkerAt(7, 10)
	if !ok {
		t.Fatal("no merged marker")
	}
	if marker.Count != 3 || marker.EndDay != 14 {
		t.Fatalf("merged marker = %+v, want count 3 ending day 14", marker)
	}
	if len(marker.Messages) != 2 || marker.Messages[0] != "N 이후 D 근무" || marker.Messages[1] != "연속 근무 초과" {
		t.Fatalf("messages = %q", marker.Messages)
	}
	if index.MarkerCount() != 2 {
		t.Fatalf("MarkerCount = %d, want 2", index.MarkerCount())
	}
	markers := index.Markers(7)
	if len(markers) != 2 || markers[0].StartDay != 10 || markers[1].StartDay != 20 {
		t.Fatalf("Markers = %+v", markers)
	}
	if covering := index.ViolationsAt(7, 11); len(covering) != 2 {
		t.Fatalf("ViolationsAt(7, 11) = %+v, want 2", covering)
	}
}

func TestViolationsClampedToPeriod(t *testing.T) {
	index := Build(28, []roster.Violation{
		{NurseID: 1, StartDay: -2, EndDay: 2},
		{NurseID: 1, StartDay: 27, EndDay: 33},
		{NurseID: 1, StartDay: 30, EndDay: 31},
	}, nil)
	if marker, ok := index.MarkerAt(1, 1); !ok || marker.Span() != 2 {
		t.Errorf("clamped leading marker = %+v, %v", marker, ok)
	}
	if marker, ok := index.MarkerAt(1, 27); !ok || marker.EndDay != 28 {
		t.Errorf("clamped trailing marker = %+v, %v", marker, ok)
	}
	if index.MarkerCount() != 2 {
		t.Errorf("MarkerCount = %d, want 2", index.MarkerCount())
	}
}

func TestRequestAt(t *testing.T) {
	index := Build(30, nil, []roster.RequestStatus{
		{NurseID: 3, Day: 12, Shift: roster.Off, Status: roster.RequestAccepted, Memo: "가족 행사"},
		{NurseID: 3, Day: 31, Shift: roster.Off, Status: roster.RequestHold},
	})
	request, ok := index.RequestAt(3, 12)
	if !ok || request.Status != roster.RequestAccepted || request.Memo != "가족 행사" {
		t.Fatalf("RequestAt(3, 12) = %+v, %v", request, ok)
	}
	if _, ok := index.RequestAt(3, 13); ok {
		t.Error("request found on the wrong day")
	}
	if _, ok := index.RequestAt(3, 31); ok {
		t.Error("out-of-period request was indexed")
	}
}
