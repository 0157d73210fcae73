// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package dutyclient

import (
	"fmt"
	"time"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/rostersync"
)

// dutyInfo is the GET /duty response.
type dutyInfo struct {
	ID         string        `json:"id"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	InvalidCnt int           `json:"invalidCnt"`
	Duty       []nurseDuty   `json:"duty"`
	Issues     []dutyIssue   `json:"issues"`
	Histories  []dutyHistory `json:"histories"`
}

type nurseDuty struct {
	MemberID   int64  `json:"memberId"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	PrevShifts string `json:"prevShifts"`
	Shifts     string `json:"shifts"`
}

type dutyIssue struct {
	MemberID     int64  `json:"memberId"`
	Name         string `json:"name"`
	StartDate    int    `json:"startDate"`
	EndDate      int    `json:"endDate"`
	EndDateShift string `json:"endDateShift"`
	Message      string `json:"message"`
}

type dutyHistory struct {
	Idx           int    `json:"idx"`
	MemberID      int64  `json:"memberId"`
	Name          string `json:"name"`
	Before        string `json:"before"`
	After         string `json:"after"`
	ModifiedDay   int    `json:"modifiedDay"`
	IsAutoCreated bool   `json:"isAutoCreated"`
}

// dutyUpdate is one element of the PUT /duty body.
type dutyUpdate struct {
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	History dutyHistory `json:"history"`
}

// wardRule is the GET /ward/rule response.
type wardRule struct {
	WdayDCnt int `json:"wdayDCnt"`
	WdayECnt int `json:"wdayECnt"`
	WdayNCnt int `json:"wdayNCnt"`
	WendDCnt int `json:"wendDCnt"`
	WendECnt int `json:"wendECnt"`
	WendNCnt int `json:"wendNCnt"`
	MaxN     int `json:"maxN"`
	MinN     int `json:"minN"`
}

// wardRequest is one element of the GET /ward/request response.
type wardRequest struct {
	RequestID int64  `json:"requestId"`
	MemberID  int64  `json:"memberId"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Shift     string `json:"shift"`
	Memo      string `json:"memo"`
	Status    string `json:"status"`
}

// neededNurses is the 406 body of GET /duty/auto-create.
type neededNurses struct {
	NeededNurseCount int `json:"neededNurseCount"`
}

func (info dutyInfo) snapshot(requested roster.Period) (roster.Snapshot, error) {
	period := requested
	if info.Year != 0 || info.Month != 0 {
		reported, err := roster.NewPeriod(info.Year, info.Month)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("dutyclient: duty response: %w", err)
		}
		period = reported
	}
	days := period.Days()

	snapshot := roster.Snapshot{
		Grid:         roster.Grid{Period: period, Rows: make([]roster.NurseRow, 0, len(info.Duty))},
		InvalidCount: info.InvalidCnt,
	}
	for _, nurse := range info.Duty {
		trailing, err := roster.ParseShifts(nurse.PrevShifts)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("dutyclient: nurse %d previous shifts: %w", nurse.MemberID, err)
		}
		shifts, err := roster.ParseShifts(nurse.Shifts)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("dutyclient: nurse %d shifts: %w", nurse.MemberID, err)
		}
		if len(shifts) > days {
			return roster.Snapshot{}, fmt.Errorf("dutyclient: nurse %d has %d shifts for a %d-day month", nurse.MemberID, len(shifts), days)
		}
		// Members added mid-month arrive with a short or empty string.
		for len(shifts) < days {
			shifts = append(shifts, roster.Unassigned)
		}
		snapshot.Grid.Rows = append(snapshot.Grid.Rows, roster.NurseRow{
			NurseID:  nurse.MemberID,
			Name:     nurse.Name,
			Role:     roster.Role(nurse.Role),
			Trailing: trailing,
			Shifts:   shifts,
		})
	}
	for _, issue := range info.Issues {
		snapshot.Violations = append(snapshot.Violations, roster.Violation{
			NurseID:  issue.MemberID,
			StartDay: issue.StartDate,
			EndDay:   issue.EndDate,
			Message:  issue.Message,
		})
	}
	for _, history := range info.Histories {
		before, err := roster.ParseShiftCode(history.Before)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("dutyclient: history %d: %w", history.Idx, err)
		}
		after, err := roster.ParseShiftCode(history.After)
		if err != nil {
			return roster.Snapshot{}, fmt.Errorf("dutyclient: history %d: %w", history.Idx, err)
		}
		snapshot.History = append(snapshot.History, roster.HistoryEntry{
			Index:     history.Idx,
			NurseID:   history.MemberID,
			Name:      history.Name,
			Before:    before,
			After:     after,
			Day:       history.ModifiedDay,
			Automatic: history.IsAutoCreated,
		})
	}
	return snapshot, nil
}

func (rule wardRule) rules() roster.Rules {
	return roster.Rules{
		Weekday:   roster.Targets{Day: rule.WdayDCnt, Evening: rule.WdayECnt, Night: rule.WdayNCnt},
		Weekend:   roster.Targets{Day: rule.WendDCnt, Evening: rule.WendECnt, Night: rule.WendNCnt},
		MaxNights: rule.MaxN,
		MinNights: rule.MinN,
	}
}

func (request wardRequest) dated() (roster.DatedRequest, error) {
	date, err := time.Parse(time.DateOnly, request.Date)
	if err != nil {
		return roster.DatedRequest{}, fmt.Errorf("dutyclient: request %d date %q: %w", request.RequestID, request.Date, err)
	}
	shift, err := roster.ParseShiftCode(request.Shift)
	if err != nil {
		return roster.DatedRequest{}, fmt.Errorf("dutyclient: request %d: %w", request.RequestID, err)
	}
	status, err := roster.ParseRequestState(request.Status)
	if err != nil {
		return roster.DatedRequest{}, fmt.Errorf("dutyclient: request %d: %w", request.RequestID, err)
	}
	return roster.DatedRequest{
		NurseID: request.MemberID,
		Name:    request.Name,
		Year:    date.Year(),
		Month:   int(date.Month()),
		Day:     date.Day(),
		Shift:   shift,
		Status:  status,
		Memo:    request.Memo,
	}, nil
}

func updatesFor(batch rostersync.Batch) []dutyUpdate {
	updates := make([]dutyUpdate, len(batch.Edits))
	for index, edit := range batch.Edits {
		updates[index] = dutyUpdate{
			Year:  edit.Period.Year,
			Month: int(edit.Period.Month),
			History: dutyHistory{
				MemberID:      edit.NurseID,
				Name:          edit.Name,
				Before:        string(edit.Before.Letter()),
				After:         string(edit.After.Letter()),
				ModifiedDay:   edit.Day,
				IsAutoCreated: edit.Automatic,
			},
		}
	}
	return updates
}
