// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/dutymate/dutymate-v2-sub000/cmd/dutyroster/cli"
	"github.com/dutymate/dutymate-v2-sub000/lib/clock"
	"github.com/dutymate/dutymate-v2-sub000/lib/config"
	"github.com/dutymate/dutymate-v2-sub000/lib/dutyclient"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor/editortest"
	"github.com/dutymate/dutymate-v2-sub000/lib/export"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

type harness struct {
	backend *editortest.Backend
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	env     Environment
	dir     string
}

// newHarness isolates the configuration lookup and serves every
// command from an in-memory backend.
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{backend: editortest.NewBackend(), dir: t.TempDir()}
	t.Setenv("XDG_CONFIG_HOME", h.dir)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvToken, "")
	h.env = Environment{
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Clock:  clock.Fake(editortest.Epoch),
		NewBackend: func(*config.Config, *slog.Logger) (editor.Backend, error) {
			return h.backend, nil
		},
	}
	return h
}

func (h *harness) run(args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	return Root(h.env).Execute(context.Background(), args)
}

func (h *harness) writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, "dutyroster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func exitCode(err error) int { return cli.ExitCodeFor(err) }

func TestShowPrintsTheGrid(t *testing.T) {
	h := newHarness(t)
	h.backend.Set(editortest.October, 0, 1, roster.Day)

	if err := h.run("show", "--color", "never"); err != nil {
		t.Fatalf("show: %v", err)
	}
	output := ansi.Strip(h.stdout.String())
	for _, want := range []string{"2026. 10", "김하나", "이두리", "박세나"} {
		if !strings.Contains(output, want) {
			t.Errorf("output lacks %q:\n%s", want, output)
		}
	}
}

func TestShowJSONPrintsTheDocument(t *testing.T) {
	h := newHarness(t)
	if err := h.run("show", "--json", "2026-11"); err != nil {
		t.Fatalf("show: %v", err)
	}
	var document export.Document
	if err := json.Unmarshal(h.stdout.Bytes(), &document); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, h.stdout.String())
	}
	if document.Period != editortest.October.AddMonths(1) || len(document.Snapshot.Grid.Rows) != 3 {
		t.Errorf("document = %+v", document)
	}
}

func TestShowRejectsAMalformedMonth(t *testing.T) {
	h := newHarness(t)
	err := h.run("show", "2026-13")
	if exitCode(err) != cli.ExitUsage {
		t.Fatalf("show 2026-13 = %v, want a usage error", err)
	}
}

func TestExportWritesToTheConfiguredDirectory(t *testing.T) {
	h := newHarness(t)
	h.backend.Set(editortest.October, 1, 2, roster.Night)
	directory := filepath.Join(h.dir, "exports")
	path := h.writeConfig(t, fmt.Sprintf("export:\n  directory: %s\n  format: json\n", directory))

	if err := h.run("export", "--config", path); err != nil {
		t.Fatalf("export: %v", err)
	}
	want := filepath.Join(directory, "duty-2026-10.json")
	if got := strings.TrimSpace(h.stdout.String()); got != want {
		t.Fatalf("printed path %q, want %q", got, want)
	}
	document, err := export.ReadFile(want)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if document.Snapshot.Grid.Rows[1].Shifts[1] != roster.Night {
		t.Errorf("exported row = %v", document.Snapshot.Grid.Rows[1].Shifts)
	}
}

func TestExportedArchiveRendersOffline(t *testing.T) {
	h := newHarness(t)
	archive := filepath.Join(h.dir, "october.cbor.lz4")
	if err := h.run("export", "--output", archive); err != nil {
		t.Fatalf("export: %v", err)
	}

	h.env.NewBackend = func(*config.Config, *slog.Logger) (editor.Backend, error) {
		t.Fatal("show --from contacted the backend")
		return nil, nil
	}
	if err := h.run("show", "--from", archive, "--color", "never"); err != nil {
		t.Fatalf("show --from: %v", err)
	}
	if output := ansi.Strip(h.stdout.String()); !strings.Contains(output, "김하나") {
		t.Errorf("rendered archive lacks nurse rows:\n%s", output)
	}
}

func TestExportToStdout(t *testing.T) {
	h := newHarness(t)
	if err := h.run("export", "--format", "json", "--output", "-"); err != nil {
		t.Fatalf("export: %v", err)
	}
	document, err := export.Read(&h.stdout, export.FormatJSON)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if document.Period != editortest.October {
		t.Errorf("period = %v", document.Period)
	}
}

func TestExportRefusesMismatchedSuffix(t *testing.T) {
	h := newHarness(t)
	err := h.run("export", "--format", "json", "--output", filepath.Join(h.dir, "duty.xlsx"))
	if exitCode(err) != cli.ExitUsage {
		t.Fatalf("export = %v, want a usage error", err)
	}
	err = h.run("export", "--output", "-")
	if exitCode(err) != cli.ExitUsage || !strings.Contains(cli.HintOf(err), "--format") {
		t.Fatalf("spreadsheet to stdout = %v (hint %q)", err, cli.HintOf(err))
	}
}

func TestHistoryListsChanges(t *testing.T) {
	h := newHarness(t)
	h.backend.SetHistory(editortest.October,
		roster.HistoryEntry{Index: 0, NurseID: 11, Name: "김하나", Before: roster.Unassigned, After: roster.Day, Day: 3},
		roster.HistoryEntry{Index: 1, NurseID: 12, Name: "이두리", Before: roster.Day, After: roster.Off, Day: 4, Automatic: true},
	)
	if err := h.run("history"); err != nil {
		t.Fatalf("history: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("history printed %d lines:\n%s", len(lines), h.stdout.String())
	}
	if !strings.Contains(lines[1], "10-03 Sat") || !strings.Contains(lines[1], "X → D") || !strings.Contains(lines[1], "manual") {
		t.Errorf("first entry = %q", lines[1])
	}
	if !strings.Contains(lines[2], "auto") {
		t.Errorf("second entry = %q", lines[2])
	}

	if err := h.run("history", "2026-11"); err != nil {
		t.Fatalf("history 2026-11: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "no changes recorded") {
		t.Errorf("empty history output = %q", h.stdout.String())
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	h.backend.Set(editortest.October, 0, 1, roster.Day)

	err := h.run("reset")
	if exitCode(err) != cli.ExitUsage || !strings.Contains(cli.HintOf(err), "--yes") {
		t.Fatalf("reset = %v, want a usage error hinting --yes", err)
	}
	if len(h.backend.Resets()) != 0 {
		t.Fatal("reset without --yes reached the backend")
	}

	if err := h.run("reset", "--yes"); err != nil {
		t.Fatalf("reset --yes: %v", err)
	}
	if resets := h.backend.Resets(); !slices.Equal(resets, []roster.Period{editortest.October}) {
		t.Errorf("resets = %v", resets)
	}
}

func TestResetLeavesAnEmptyMonthAlone(t *testing.T) {
	h := newHarness(t)
	if err := h.run("reset", "--yes", "2026-10"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(h.backend.Resets()) != 0 {
		t.Errorf("empty month was reset")
	}
	if !strings.Contains(h.stdout.String(), "already empty") {
		t.Errorf("output = %q", h.stdout.String())
	}
}

func TestAutogenReportsShortfall(t *testing.T) {
	h := newHarness(t)
	h.backend.SetOutcome(roster.AutoGenerateOutcome{Kind: roster.OutcomeInsufficientStaff, NeededNurses: 2})

	err := h.run("autogen")
	if exitCode(err) != cli.ExitConflict {
		t.Fatalf("autogen = %v, want a conflict", err)
	}
	if !strings.Contains(err.Error(), "2 more nurses") || !strings.Contains(cli.HintOf(err), "--force") {
		t.Errorf("error %q, hint %q", err, cli.HintOf(err))
	}

	h.backend.SetOutcome(roster.AutoGenerateOutcome{Kind: roster.OutcomeGenerated})
	if err := h.run("autogen", "--force", "--json"); err != nil {
		t.Fatalf("autogen --force: %v", err)
	}
	var result autogenResult
	if err := json.Unmarshal(h.stdout.Bytes(), &result); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if result.Outcome != "generated" || result.Period != "2026-10" {
		t.Errorf("result = %+v", result)
	}
	if calls := h.backend.AutoGenerateCalls(); !slices.Equal(calls, []bool{false, true}) {
		t.Errorf("force flags = %v", calls)
	}
}

func TestAutogenAlreadyOptimal(t *testing.T) {
	h := newHarness(t)
	h.backend.SetOutcome(roster.AutoGenerateOutcome{Kind: roster.OutcomeAlreadyOptimal})
	if err := h.run("autogen", "2026-10"); err != nil {
		t.Fatalf("autogen: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "nothing regenerated") {
		t.Errorf("output = %q", h.stdout.String())
	}
}

func TestEditRequiresATerminal(t *testing.T) {
	h := newHarness(t)
	err := h.run("edit")
	if exitCode(err) != cli.ExitUsage || !strings.Contains(cli.HintOf(err), "show") {
		t.Fatalf("edit on a buffer = %v (hint %q)", err, cli.HintOf(err))
	}
}

func TestMissingTokenIsForbidden(t *testing.T) {
	h := newHarness(t)
	h.env.NewBackend = nil
	err := h.run("show")
	if exitCode(err) != cli.ExitForbidden {
		t.Fatalf("show without token = %v, want forbidden", err)
	}
	if !strings.Contains(cli.HintOf(err), config.EnvToken) {
		t.Errorf("hint = %q", cli.HintOf(err))
	}
}

func TestConfigShowRedactsTheToken(t *testing.T) {
	h := newHarness(t)
	path := h.writeConfig(t, "server:\n  token: hunter2\n  timeout: 20s\n")
	if err := h.run("config", "show", "--config", path); err != nil {
		t.Fatalf("config show: %v", err)
	}
	output := h.stdout.String()
	if strings.Contains(output, "hunter2") {
		t.Fatalf("token leaked:\n%s", output)
	}
	for _, want := range []string{"token: (set)", "timeout: 20s", "quiet_period: 1s"} {
		if !strings.Contains(output, want) {
			t.Errorf("output lacks %q:\n%s", want, output)
		}
	}

	if err := h.run("config", "path", "--config", path); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(h.stdout.String()) != path {
		t.Errorf("config path = %q", h.stdout.String())
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	h := newHarness(t)
	err := h.run("shwo")
	if exitCode(err) != cli.ExitUsage || !strings.Contains(err.Error(), `"show"`) {
		t.Fatalf("shwo = %v", err)
	}
}

type flakyError struct{}

func (flakyError) Error() string   { return "connection reset" }
func (flakyError) Retryable() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"auth", &dutyclient.APIError{StatusCode: 401}, cli.ExitForbidden},
		{"expired session", fmt.Errorf("open: %w", editor.ErrAuthExpired), cli.ExitForbidden},
		{"not found", &dutyclient.APIError{StatusCode: 404}, cli.ExitNotFound},
		{"missing file", os.ErrNotExist, cli.ExitNotFound},
		{"retryable", flakyError{}, cli.ExitTransient},
		{"server", &dutyclient.APIError{StatusCode: 503}, cli.ExitTransient},
		{"other", errors.New("boom"), cli.ExitFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify(tc.err, "fetching")
			if got := exitCode(err); got != tc.want {
				t.Errorf("exit code %d, want %d (%v)", got, tc.want, err)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("classified error lost its cause: %v", err)
			}
		})
	}
	if !errors.Is(classify(context.Canceled, "x"), context.Canceled) {
		t.Error("cancellation was not passed through")
	}
}
