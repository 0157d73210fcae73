// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor/editortest"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

func newTestModel(t *testing.T, backend *editortest.Backend) (Model, *editor.Session) {
	t.Helper()
	session, _ := editortest.Open(t, backend, nil)
	return NewModel(Config{Session: session, Context: context.Background()}), session
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// send feeds message to model and keeps the result.
func send(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	return updated.(Model), cmd
}

// settle runs cmd to completion and feeds its message back, the way
// the bubbletea runtime would.
func settle(t *testing.T, model Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		message := cmd()
		if message == nil {
			break
		}
		model, cmd = send(t, model, message)
	}
	return model
}

// click presses the left button over day col of nurse row.
func click(model Model, row, col int) tea.MouseMsg {
	return tea.MouseMsg{
		X:      model.parts.prefixWidth + col*model.options.CellWidth + 1,
		Y:      len(model.parts.header) + row,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
}

func TestClickThenTypeEdits(t *testing.T) {
	backend := editortest.NewBackend()
	model, session := newTestModel(t, backend)

	model, _ = send(t, model, click(model, 1, 4))
	if state := session.Selection(); !state.Active || state.Row != 1 || state.Col != 4 {
		t.Fatalf("selection after click = %v, want (1,4)", state)
	}

	model, _ = send(t, model, runes("D"))
	model, _ = send(t, model, runes("ㅜ"))

	shifts := session.Snapshot().Grid.Rows[1].Shifts
	if shifts[4] != roster.Day || shifts[5] != roster.Night {
		t.Errorf("shifts[4:6] = %v %v, want D N", shifts[4], shifts[5])
	}
	if state := model.view.Selection; state.Col != 6 {
		t.Errorf("model selection = %v, want column 6", state)
	}
	if model.view.Sync.Pending != 2 {
		t.Errorf("pending = %d, want 2", model.view.Sync.Pending)
	}
	if !strings.Contains(model.View(), "2 unsaved") {
		t.Errorf("status line does not report unsaved edits:\n%s", model.View())
	}
}

func TestPasteAppliesEveryRune(t *testing.T) {
	model, session := newTestModel(t, editortest.NewBackend())
	session.Select(0, 0)
	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("DENO"), Paste: true})

	got := roster.FormatShifts(session.Snapshot().Grid.Rows[0].Shifts[:4])
	if got != "DENO" {
		t.Fatalf("first four shifts = %q, want DENO", got)
	}
	if model.view.Selection.Col != 4 {
		t.Errorf("selection = %v", model.view.Selection)
	}
}

func TestHeldKeyIsIgnored(t *testing.T) {
	session, fake := editortest.Open(t, editortest.NewBackend(), nil)
	model := NewModel(Config{Session: session, Context: context.Background(), Clock: fake})
	session.Select(0, 0)

	model, _ = send(t, model, runes("D"))
	fake.Advance(20 * time.Millisecond)
	model, _ = send(t, model, runes("D"))
	fake.Advance(20 * time.Millisecond)
	model, _ = send(t, model, runes("D"))
	if state := session.Selection(); state.Col != 1 {
		t.Fatalf("autorepeat moved the selection to %v", state)
	}

	fake.Advance(200 * time.Millisecond)
	model, _ = send(t, model, runes("D"))
	model, _ = send(t, model, runes("E"))
	got := roster.FormatShifts(session.Snapshot().Grid.Rows[0].Shifts[:3])
	if got != "DDE" {
		t.Fatalf("first three shifts = %q, want DDE", got)
	}
	if model.view.Selection.Col != 3 {
		t.Errorf("selection = %v", model.view.Selection)
	}
}

func TestArrowKeysMoveSelection(t *testing.T) {
	model, session := newTestModel(t, editortest.NewBackend())
	session.Select(0, 0)
	model.refresh()

	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyDown})
	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyRight})
	if state := model.view.Selection; state.Row != 1 || state.Col != 1 {
		t.Fatalf("selection = %v, want (1,1)", state)
	}
}

func TestNavigateRunsOffTheEventLoop(t *testing.T) {
	model, session := newTestModel(t, editortest.NewBackend())

	model, cmd := send(t, model, runes("]"))
	if cmd == nil {
		t.Fatal("next month returned no command")
	}
	if model.busy != "loading" {
		t.Errorf("busy = %q, want loading", model.busy)
	}
	if session.Period() != editortest.October {
		t.Fatalf("period changed before the command ran")
	}

	model = settle(t, model, cmd)
	if model.busy != "" {
		t.Errorf("busy = %q after completion", model.busy)
	}
	if want := editortest.October.AddMonths(1); model.view.Period != want {
		t.Errorf("period = %s, want %s", model.view.Period, want)
	}

	// Two months ahead is past the navigation horizon.
	model, cmd = send(t, model, runes("]"))
	model = settle(t, model, cmd)
	if model.view.Notice == nil || model.view.Period != editortest.October.AddMonths(1) {
		t.Errorf("navigating past the horizon: period %s, notice %+v", model.view.Period, model.view.Notice)
	}
}

func TestResetAsksForConfirmation(t *testing.T) {
	backend := editortest.NewBackend()
	backend.Set(editortest.October, 0, 1, roster.Day)
	model, session := newTestModel(t, backend)

	model, cmd := send(t, model, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd != nil || !model.confirmReset {
		t.Fatalf("reset started without confirmation")
	}
	model, _ = send(t, model, runes("n"))
	if model.confirmReset || len(backend.Resets()) != 0 {
		t.Fatalf("declined reset still ran")
	}

	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlR})
	model, cmd = send(t, model, runes("y"))
	model = settle(t, model, cmd)
	if resets := backend.Resets(); len(resets) != 1 || resets[0] != editortest.October {
		t.Fatalf("resets = %v", resets)
	}
	if session.HasAnyFilled() || model.view.HasAnyFilled {
		t.Errorf("roster still filled after reset")
	}
}

func TestResetOfEmptyRosterSkipsConfirmation(t *testing.T) {
	backend := editortest.NewBackend()
	model, _ := newTestModel(t, backend)

	model, cmd := send(t, model, tea.KeyMsg{Type: tea.KeyCtrlR})
	if model.confirmReset {
		t.Fatal("empty roster asked for confirmation")
	}
	model = settle(t, model, cmd)
	if len(backend.Resets()) != 0 {
		t.Errorf("empty roster was reset on the backend")
	}
	if model.view.Notice == nil || model.view.Notice.Kind != editor.NoticeInfo {
		t.Errorf("notice = %+v, want an info notice", model.view.Notice)
	}
}

func TestJumpSelectsMatchingNurse(t *testing.T) {
	model, session := newTestModel(t, editortest.NewBackend())
	session.Select(0, 4)
	model.refresh()

	model, _ = send(t, model, runes("/"))
	if model.jump == nil {
		t.Fatal("jump did not open")
	}
	model, _ = send(t, model, runes("세나"))
	if len(model.jump.matches) != 1 || model.jump.matches[0].Row != 2 {
		t.Fatalf("matches = %+v", model.jump.matches)
	}
	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.jump != nil {
		t.Error("jump still open after enter")
	}
	if state := session.Selection(); state.Row != 2 || state.Col != 4 {
		t.Errorf("selection = %v, want (2,4)", state)
	}

	// Typing in the finder never edits the grid.
	if session.HasAnyFilled() {
		t.Error("jump query leaked into the grid")
	}
}

func TestInsufficientStaffOffersForce(t *testing.T) {
	backend := editortest.NewBackend()
	backend.SetOutcome(roster.AutoGenerateOutcome{Kind: roster.OutcomeInsufficientStaff, NeededNurses: 2})
	model, _ := newTestModel(t, backend)

	model, cmd := send(t, model, tea.KeyMsg{Type: tea.KeyCtrlG})
	model = settle(t, model, cmd)
	if model.view.Modal == nil {
		t.Fatal("insufficient staff did not raise a modal")
	}
	if view := model.View(); !strings.Contains(view, "generate anyway") {
		t.Errorf("modal does not offer force:\n%s", view)
	}

	// Shift letters are swallowed while the modal is up.
	model, _ = send(t, model, runes("D"))
	if model.view.Modal == nil {
		t.Fatal("shift key dismissed the modal")
	}

	backend.SetOutcome(roster.AutoGenerateOutcome{Kind: roster.OutcomeGenerated})
	model, cmd = send(t, model, runes("f"))
	model = settle(t, model, cmd)
	calls := backend.AutoGenerateCalls()
	if len(calls) != 2 || calls[0] || !calls[1] {
		t.Fatalf("auto-generate calls = %v, want [false true]", calls)
	}
	if model.view.Modal != nil {
		t.Errorf("modal still open: %+v", model.view.Modal)
	}
}

func TestFailedSyncOffersRetry(t *testing.T) {
	backend := editortest.NewBackend()
	model, session := newTestModel(t, backend)
	backend.SetSubmitErr(errUnavailable{})

	session.Select(0, 0)
	model, _ = send(t, model, runes("E"))
	model, cmd := send(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	model = settle(t, model, cmd)
	if model.view.Sync.Failed != 1 {
		t.Fatalf("failed = %d, want 1", model.view.Sync.Failed)
	}
	if view := model.View(); !strings.Contains(view, "not saved") {
		t.Errorf("view does not report the failure:\n%s", view)
	}

	backend.SetSubmitErr(nil)
	model, cmd = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	model = settle(t, model, cmd)
	if sync := model.view.Sync; sync.Failed != 0 || sync.Pending != 0 {
		t.Errorf("sync after retry = %+v", sync)
	}
	if got := len(backend.Submitted()); got != 2 {
		t.Errorf("submissions = %d, want 2", got)
	}
}

type errUnavailable struct{}

func (errUnavailable) Error() string   { return "503 service unavailable" }
func (errUnavailable) Retryable() bool { return true }

func TestQuitDrainsBeforeExit(t *testing.T) {
	backend := editortest.NewBackend()
	model, session := newTestModel(t, backend)
	session.Select(0, 0)
	model, _ = send(t, model, runes("O"))

	model, cmd := send(t, model, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !model.quitting || cmd == nil {
		t.Fatal("quit did not start closing")
	}
	message := cmd()
	if _, ok := message.(closedMsg); !ok {
		t.Fatalf("close command returned %T", message)
	}
	model, cmd = send(t, model, message)
	if model.CloseErr() != nil {
		t.Errorf("CloseErr = %v", model.CloseErr())
	}
	if cmd == nil {
		t.Fatal("closed session did not quit the program")
	}
	if len(backend.Submitted()) != 1 {
		t.Errorf("pending edit was not saved on quit")
	}
}

func TestWindowSizeBoundsViewport(t *testing.T) {
	model, _ := newTestModel(t, editortest.NewBackend())
	model, _ = send(t, model, tea.WindowSizeMsg{Width: 160, Height: 14})
	want := 14 - len(model.parts.header) - len(model.parts.footer) - bottomLines
	if want < 1 {
		want = 1
	}
	if model.viewport.Height != want {
		t.Errorf("viewport height = %d, want %d", model.viewport.Height, want)
	}
}

func TestLogRecordFades(t *testing.T) {
	model, _ := newTestModel(t, editortest.NewBackend())
	record := logRecordMsg{Summary: "batch submitted (edits=3)", At: editortest.Epoch}
	model, cmd := send(t, model, record)
	if cmd == nil || model.logLine == nil {
		t.Fatal("log record not shown")
	}
	if !strings.Contains(model.View(), "batch submitted") {
		t.Errorf("status line missing log record")
	}

	// A fade for an older record leaves the newer one up.
	model, _ = send(t, model, logRecordFadeMsg{At: editortest.Epoch.Add(-1)})
	if model.logLine == nil {
		t.Fatal("stale fade cleared the log line")
	}
	model, _ = send(t, model, logRecordFadeMsg{At: editortest.Epoch})
	if model.logLine != nil {
		t.Error("log line survived its fade")
	}
}
