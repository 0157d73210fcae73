// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func TestFakeNowAdvances(t *testing.T) {
	clock := Fake(epoch)
	clock.Advance(90 * time.Second)
	if got, want := clock.Now(), epoch.Add(90*time.Second); !got.Equal(want) {
		t.Fatalf("Now() = %v, want %v", got, want)
	}
}

func TestFakeAfterFuncFiresAtDeadline(t *testing.T) {
	clock := Fake(epoch)
	fired := 0
	clock.AfterFunc(time.Second, func() { fired++ })

	clock.Advance(999 * time.Millisecond)
	if fired != 0 {
		t.Fatalf("callback fired %d times before deadline", fired)
	}
	clock.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("callback fired %d times at deadline, want 1", fired)
	}
	clock.Advance(time.Hour)
	if fired != 1 {
		t.Fatalf("one-shot callback fired %d times, want 1", fired)
	}
}

func TestFakeStopPreventsCall(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop() on a pending timer returned false")
	}
	if timer.Stop() {
		t.Fatal("second Stop() returned true")
	}
	clock.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if count := clock.PendingCount(); count != 0 {
		t.Fatalf("PendingCount() = %d, want 0", count)
	}
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	clock := Fake(epoch)
	var order []string
	clock.AfterFunc(3*time.Second, func() { order = append(order, "third") })
	clock.AfterFunc(time.Second, func() { order = append(order, "first") })
	clock.AfterFunc(2*time.Second, func() { order = append(order, "second") })

	clock.Advance(5 * time.Second)
	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("fired %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("fired %v, want %v", order, want)
		}
	}
}

func TestFakeCallbackMayReschedule(t *testing.T) {
	clock := Fake(epoch)
	fired := 0
	var schedule func()
	schedule = func() {
		fired++
		if fired < 3 {
			clock.AfterFunc(time.Second, schedule)
		}
	}
	clock.AfterFunc(time.Second, schedule)

	clock.Advance(10 * time.Second)
	if fired != 1 {
		t.Fatalf("after first Advance fired %d times, want 1", fired)
	}
	clock.Advance(time.Second)
	clock.Advance(time.Second)
	clock.Advance(time.Second)
	if fired != 3 {
		t.Fatalf("fired %d times, want 3", fired)
	}
}

func TestFakeZeroDurationRunsImmediately(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	timer := clock.AfterFunc(0, func() { fired = true })
	if !fired {
		t.Fatal("AfterFunc(0) did not run synchronously")
	}
	if timer.Stop() {
		t.Fatal("Stop() after an immediate call returned true")
	}
}

func TestNilTimerStop(t *testing.T) {
	var timer *Timer
	if timer.Stop() {
		t.Fatal("nil Timer Stop() returned true")
	}
}
