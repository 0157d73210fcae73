// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"time"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// NoticeKind classifies a user-facing message.
type NoticeKind uint8

const (
	NoticeInfo NoticeKind = iota
	NoticeWarning
	// NoticeNetworkError is a failed request. Local edits are kept.
	NoticeNetworkError
	// NoticeConflict is an auto-generate end state: insufficient staff
	// or already optimal.
	NoticeConflict
	// NoticeAuthExpired ends the session; the user must log in again.
	NoticeAuthExpired
)

func (kind NoticeKind) String() string {
	switch kind {
	case NoticeWarning:
		return "warning"
	case NoticeNetworkError:
		return "network-error"
	case NoticeConflict:
		return "conflict"
	case NoticeAuthExpired:
		return "auth-expired"
	default:
		return "info"
	}
}

// Notice is one message on the shared notification surface.
type Notice struct {
	Kind    NoticeKind
	Message string

	// Retryable notices offer Retry.
	Retryable bool

	// Modal notices block editing until acknowledged.
	Modal bool

	// Outcome is set for auto-generate conflicts.
	Outcome *roster.AutoGenerateOutcome

	Err error
	At  time.Time
}

// Status is the session's lifecycle state.
type Status uint8

const (
	StatusLoading Status = iota
	StatusReady
	// StatusLoadFailed blocks editing until Retry reloads the period.
	StatusLoadFailed
	// StatusAuthExpired is terminal.
	StatusAuthExpired
	StatusClosed
)

func (status Status) String() string {
	switch status {
	case StatusReady:
		return "ready"
	case StatusLoadFailed:
		return "load-failed"
	case StatusAuthExpired:
		return "auth-expired"
	case StatusClosed:
		return "closed"
	default:
		return "loading"
	}
}

// EventKind says what changed.
type EventKind uint8

const (
	EventGridChanged EventKind = iota
	EventSelectionChanged
	EventStatusChanged
	EventSyncChanged
	EventOverlaysChanged
	EventNotice
)

// Event is delivered to Config.OnEvent after the change is visible
// through View.
type Event struct {
	Kind   EventKind
	Notice *Notice
}
