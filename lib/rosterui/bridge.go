// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
)

// sessionEventMsg wraps a session event delivered to the program.
type sessionEventMsg struct {
	Event editor.Event
}

// EventBridge forwards editor session events into a bubbletea program.
// The session is built before the program exists, so Forward is passed
// as editor.Config.OnEvent and SetProgram is called once the program
// is created. Events before SetProgram are dropped; the model renders
// from Session.View on start anyway.
type EventBridge struct {
	program atomic.Pointer[tea.Program]
}

// SetProgram starts delivery to program.
func (bridge *EventBridge) SetProgram(program *tea.Program) {
	bridge.program.Store(program)
}

// Forward sends event to the program. It never blocks the caller on
// the program's event loop.
func (bridge *EventBridge) Forward(event editor.Event) {
	program := bridge.program.Load()
	if program == nil {
		return
	}
	go program.Send(sessionEventMsg{Event: event})
}
