// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import "github.com/dutymate/dutymate-v2-sub000/lib/roster"

// Compliance is the staffing verdict for one (day, shift) pair.
type Compliance uint8

const (
	// ComplianceUnknown means there is nothing to compare against:
	// no rule set is loaded, or the shift has no target.
	ComplianceUnknown Compliance = iota
	ComplianceCompliant
	ComplianceNonCompliant
)

func (compliance Compliance) String() string {
	switch compliance {
	case ComplianceCompliant:
		return "compliant"
	case ComplianceNonCompliant:
		return "non-compliant"
	default:
		return "unknown"
	}
}

// CheckCompliance compares count against the rule target for code on
// a working day or a rest day. Only an exact match is compliant; both
// understaffing and overstaffing are flagged.
func CheckCompliance(count int, code roster.ShiftCode, restDay bool, rules *roster.Rules) Compliance {
	if rules == nil {
		return ComplianceUnknown
	}
	targets := rules.Weekday
	if restDay {
		targets = rules.Weekend
	}
	target, ok := targets.For(code)
	if !ok {
		return ComplianceUnknown
	}
	if count == target {
		return ComplianceCompliant
	}
	return ComplianceNonCompliant
}

// DayCompliance evaluates Day, Evening and Night on day (1-based)
// using the per-day tallies of the period.
func DayCompliance(perDay []DayCounts, period roster.Period, day int, rules *roster.Rules, calendar roster.Calendar) map[roster.ShiftCode]Compliance {
	verdicts := make(map[roster.ShiftCode]Compliance, 3)
	if day < 1 || day > len(perDay) {
		return verdicts
	}
	restDay := calendar.IsRestDay(period, day)
	for _, code := range []roster.ShiftCode{roster.Day, roster.Evening, roster.Night} {
		verdicts[code] = CheckCompliance(perDay[day-1].Count(code), code, restDay, rules)
	}
	return verdicts
}

// DefaultOffDays is the number of off days each nurse is owed in
// period: every weekend day plus every configured holiday.
func DefaultOffDays(period roster.Period, calendar roster.Calendar) int {
	return calendar.RestDays(period)
}
