// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

// Package rosterui is the terminal roster editor.
//
// Model is a bubbletea model over an editor.Session. Keystrokes that
// edit or move the cursor go straight to the session; operations that
// reach the backend (month navigation, reset, auto-generate, retry)
// run as tea.Cmds so the event loop never blocks on the network.
// Session events are forwarded into the program by EventBridge, and
// log records by TUILogHandler.
//
// RenderGrid draws a Frame without a program and backs both Model.View
// and the headless `dutyroster show` command.
package rosterui
