// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"
	"time"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

func TestCheckCompliance(t *testing.T) {
	rules := roster.DefaultRules()
	tests := []struct {
		name    string
		count   int
		code    roster.ShiftCode
		restDay bool
		rules   *roster.Rules
		want    Compliance
	}{
		{"weekday day exact", 3, roster.Day, false, &rules, ComplianceCompliant},
		{"weekday day short", 2, roster.Day, false, &rules, ComplianceNonCompliant},
		{"weekend day exact", 2, roster.Day, true, &rules, ComplianceCompliant},
		{"weekend day over", 3, roster.Day, true, &rules, ComplianceNonCompliant},
		{"night exact", 2, roster.Night, false, &rules, ComplianceCompliant},
		{"off has no target", 5, roster.Off, false, &rules, ComplianceUnknown},
		{"no rules loaded", 3, roster.Day, false, nil, ComplianceUnknown},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := CheckCompliance(test.count, test.code, test.restDay, test.rules); got != test.want {
				t.Fatalf("CheckCompliance = %v, want %v", got, test.want)
			}
		})
	}
}

func TestDayComplianceUsesHolidays(t *testing.T) {
	october := roster.Period{Year: 2026, Month: time.October}
	calendar := roster.NewCalendar(roster.Holiday{Date: time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC)})
	rules := roster.DefaultRules()

	perDay := make([]DayCounts, october.Days())
	perDay[7] = DayCounts{Day: 3, Evening: 2, Night: 2, Total: 7}
	perDay[8] = DayCounts{Day: 3, Evening: 2, Night: 2, Total: 7}

	thursday := DayCompliance(perDay, october, 8, &rules, calendar)
	if thursday[roster.Day] != ComplianceCompliant {
		t.Errorf("Oct 8 day = %v, want compliant", thursday[roster.Day])
	}
	holiday := DayCompliance(perDay, october, 9, &rules, calendar)
	if holiday[roster.Day] != ComplianceNonCompliant {
		t.Errorf("Oct 9 (holiday) day = %v, want non-compliant", holiday[roster.Day])
	}
	if holiday[roster.Evening] != ComplianceCompliant {
		t.Errorf("Oct 9 evening = %v, want compliant", holiday[roster.Evening])
	}
	if verdicts := DayCompliance(perDay, october, 0, &rules, calendar); len(verdicts) != 0 {
		t.Errorf("day 0 verdicts = %v, want none", verdicts)
	}
}

func TestDefaultOffDays(t *testing.T) {
	if got := DefaultOffDays(roster.Period{Year: 2026, Month: time.February}, roster.NewCalendar()); got != 8 {
		t.Errorf("February 2026 off days = %d, want 8", got)
	}
}
