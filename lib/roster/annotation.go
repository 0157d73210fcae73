// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import "fmt"

// Violation is a rule breach reported for one nurse over the closed
// day interval [StartDay, EndDay] (1-based).
type Violation struct {
	NurseID  int64  `json:"nurseId"`
	StartDay int    `json:"startDay"`
	EndDay   int    `json:"endDay"`
	Message  string `json:"message"`
}

// Span returns the number of days the violation covers.
func (violation Violation) Span() int {
	if violation.EndDay < violation.StartDay {
		return 0
	}
	return violation.EndDay - violation.StartDay + 1
}

// Covers reports whether day lies inside the violation.
func (violation Violation) Covers(day int) bool {
	return day >= violation.StartDay && day <= violation.EndDay
}

// RequestState is the decision on a shift-change request.
type RequestState uint8

const (
	RequestHold RequestState = iota
	RequestAccepted
	RequestDenied
)

func (state RequestState) String() string {
	switch state {
	case RequestAccepted:
		return "accepted"
	case RequestDenied:
		return "denied"
	default:
		return "hold"
	}
}

// ParseRequestState decodes the backend's status names.
func ParseRequestState(name string) (RequestState, error) {
	switch name {
	case "ACCEPTED":
		return RequestAccepted, nil
	case "DENIED":
		return RequestDenied, nil
	case "HOLD":
		return RequestHold, nil
	}
	return RequestHold, fmt.Errorf("roster: unknown request status %q", name)
}

// RequestStatus is a nurse's request for a specific shift on one day.
type RequestStatus struct {
	NurseID int64        `json:"nurseId"`
	Day     int          `json:"day"`
	Shift   ShiftCode    `json:"shift"`
	Status  RequestState `json:"status"`
	Memo    string       `json:"memo,omitempty"`
}

// DatedRequest is a RequestStatus before it is placed in a period.
// The backend returns requests for every month at once.
type DatedRequest struct {
	NurseID int64
	Name    string
	Year    int
	Month   int
	Day     int
	Shift   ShiftCode
	Status  RequestState
	Memo    string
}

// RequestsIn keeps the requests dated inside period and converts them
// to day-indexed statuses.
func RequestsIn(period Period, requests []DatedRequest) []RequestStatus {
	var statuses []RequestStatus
	for _, request := range requests {
		if request.Year != period.Year || request.Month != int(period.Month) {
			continue
		}
		if request.Day < 1 || request.Day > period.Days() {
			continue
		}
		statuses = append(statuses, RequestStatus{
			NurseID: request.NurseID,
			Day:     request.Day,
			Shift:   request.Shift,
			Status:  request.Status,
			Memo:    request.Memo,
		})
	}
	return statuses
}

// Targets are required headcounts per shift for one kind of day.
type Targets struct {
	Day     int `json:"day" yaml:"day"`
	Evening int `json:"evening" yaml:"evening"`
	Night   int `json:"night" yaml:"night"`
}

// For returns the target for code. Off, Mid and Unassigned have none.
func (targets Targets) For(code ShiftCode) (int, bool) {
	switch code {
	case Day:
		return targets.Day, true
	case Evening:
		return targets.Evening, true
	case Night:
		return targets.Night, true
	}
	return 0, false
}

// Rules is the ward's staffing rule set.
type Rules struct {
	Weekday Targets `json:"weekday"`
	Weekend Targets `json:"weekend"`

	// MaxNights and MinNights bound consecutive night shifts. The
	// backend enforces them; the editor only displays them.
	MaxNights int `json:"maxNights"`
	MinNights int `json:"minNights"`
}

// DefaultRules is the rule set a new ward starts with.
func DefaultRules() Rules {
	return Rules{
		Weekday:   Targets{Day: 3, Evening: 2, Night: 2},
		Weekend:   Targets{Day: 2, Evening: 2, Night: 2},
		MaxNights: 3,
		MinNights: 2,
	}
}
