// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg carries one slog record into the model's status line.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
	At      time.Time
}

// logRecordFadeMsg clears a log line once it has been shown for
// logRecordFadeDelay. At identifies the line so a newer record is not
// cleared early.
type logRecordFadeMsg struct {
	At time.Time
}

const logRecordFadeDelay = 5 * time.Second

// TUILogHandler is a slog.Handler that routes records into a running
// bubbletea program instead of the terminal, which the program owns.
// Records arriving before SetProgram are dropped. Handlers derived with
// WithAttrs and WithGroup share the program pointer.
type TUILogHandler struct {
	level   slog.Leveler
	program *atomic.Pointer[tea.Program]
	attrs   []string
	prefix  string
}

// NewTUILogHandler returns a handler for records at or above level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram starts delivery to program. Safe from any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle formats record as "message (key=value, ...)" and sends it.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	parts := slices.Clone(handler.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, handler.prefix, attr)
		return true
	})
	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}
	at := record.Time
	if at.IsZero() {
		at = time.Now()
	}
	program.Send(logRecordMsg{Summary: summary, Level: record.Level, At: at})
	return nil
}

func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	for _, attr := range attrs {
		derived.attrs = appendAttr(derived.attrs, handler.prefix, attr)
	}
	return &derived
}

func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	derived.prefix = handler.prefix + name + "."
	return &derived
}

func appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, prefix+attr.Key+".", member)
		}
		return parts
	}
	return append(parts, prefix+attr.Key+"="+attr.Value.String())
}
