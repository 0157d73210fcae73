// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestTUILogHandlerDropsBeforeProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	record := slog.NewRecord(time.Now(), slog.LevelWarn, "sync failed", 0)
	if err := handler.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle without program = %v", err)
	}
}

func TestTUILogHandlerEnabled(t *testing.T) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	handler := NewTUILogHandler(level)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
	level.Set(slog.LevelDebug)
	if !handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("level change not picked up")
	}
}

func TestTUILogHandlerSharesProgramAndFormatsGroups(t *testing.T) {
	root := NewTUILogHandler(slog.LevelInfo)
	derived := root.WithGroup("sync").WithAttrs([]slog.Attr{slog.Int("edits", 3)}).(*TUILogHandler)
	if derived.program != root.program {
		t.Fatal("derived handler does not share the program pointer")
	}
	if len(derived.attrs) != 1 || derived.attrs[0] != "sync.edits=3" {
		t.Errorf("attrs = %v", derived.attrs)
	}

	parts := appendAttr(nil, "", slog.Group("batch", slog.String("id", "b1"), slog.Int("size", 4)))
	if len(parts) != 2 || parts[0] != "batch.id=b1" || parts[1] != "batch.size=4" {
		t.Errorf("group attr = %v", parts)
	}
}
