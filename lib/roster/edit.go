// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import "time"

// EditState tracks a PendingEdit through synchronization.
type EditState uint8

const (
	// EditPending is waiting for the next flush, or in flight.
	EditPending EditState = iota
	// EditCommitted was acknowledged by the backend.
	EditCommitted
	// EditFailed was part of a batch the backend did not accept. The
	// local cell keeps the edited value; the edit is resubmitted with
	// the next flush.
	EditFailed
)

func (state EditState) String() string {
	switch state {
	case EditCommitted:
		return "committed"
	case EditFailed:
		return "failed"
	default:
		return "pending"
	}
}

// PendingEdit is one cell change awaiting backend confirmation.
type PendingEdit struct {
	// ID is the queue-assigned sequence number, unique within an
	// editing session. Zero until the edit is enqueued.
	ID uint64 `json:"id"`

	Period  Period `json:"period"`
	NurseID int64  `json:"nurseId"`
	Name    string `json:"name"`

	// Day is 1-based.
	Day    int       `json:"day"`
	Before ShiftCode `json:"before"`
	After  ShiftCode `json:"after"`

	// Automatic is set for edits produced by tooling rather than a
	// keystroke.
	Automatic bool `json:"automatic"`

	Timestamp time.Time `json:"timestamp"`
	State     EditState `json:"state"`
}

// OutcomeKind classifies an auto-generate response.
type OutcomeKind uint8

const (
	// OutcomeGenerated means the backend wrote a new roster.
	OutcomeGenerated OutcomeKind = iota
	// OutcomeInsufficientStaff means the ward cannot satisfy its rule
	// set with the current staff. NeededNurses holds the headcount the
	// backend suggests.
	OutcomeInsufficientStaff
	// OutcomeAlreadyOptimal means the existing roster already
	// satisfies every rule, so nothing was regenerated.
	OutcomeAlreadyOptimal
)

func (kind OutcomeKind) String() string {
	switch kind {
	case OutcomeInsufficientStaff:
		return "insufficient staff"
	case OutcomeAlreadyOptimal:
		return "already optimal"
	default:
		return "generated"
	}
}

// AutoGenerateOutcome is the result of an auto-generate request.
type AutoGenerateOutcome struct {
	Kind         OutcomeKind
	NeededNurses int
}
