// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/metrics"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// renderDetail describes the selected cell: who and when, the shift
// request on it, and the violations covering it.
func renderDetail(view editor.View, theme Theme) []string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	state := view.Selection
	grid := view.Snapshot.Grid
	if !state.Active || state.Row >= len(grid.Rows) || state.Col >= grid.Days() {
		return []string{faint.Render("select a cell (arrows or click) and type a shift letter")}
	}

	nurse := grid.Rows[state.Row]
	day := state.Col + 1
	period := grid.Period
	code := nurse.Shifts[state.Col]

	heading := fmt.Sprintf("%s (%s)  %d/%d %s  %s",
		nurse.Name, nurse.Role, int(period.Month), day, period.Weekday(day).String()[:3], code)
	if name, ok := view.Calendar.Holiday(period, day); ok {
		heading += "  " + lipgloss.NewStyle().Foreground(theme.RestDay).Render(holidayLabel(name))
	}
	lines := []string{lipgloss.NewStyle().Foreground(theme.HeaderText).Render(heading) + staffingSummary(view, day, theme)}

	if view.Overlay != nil {
		if request, ok := view.Overlay.RequestAt(nurse.NurseID, day); ok {
			text := fmt.Sprintf("request %s (%s)", request.Shift, request.Status)
			if request.Memo != "" {
				text += ": " + request.Memo
			}
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.RequestColor(request.Status)).Render(text))
		}
		var messages []string
		for _, violation := range view.Overlay.ViolationsAt(nurse.NurseID, day) {
			messages = append(messages, violation.Message)
		}
		if len(messages) > 0 {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.ViolationForeground).
				Render("! "+strings.Join(messages, "; ")))
		}
	}
	return lines
}

func holidayLabel(name string) string {
	if name == "" {
		return "holiday"
	}
	return name
}

// staffingSummary shows the day's D/E/N counts against the targets.
func staffingSummary(view editor.View, day int, theme Theme) string {
	if view.Rules == nil || day > len(view.Metrics.PerDay) {
		return ""
	}
	period := view.Snapshot.Grid.Period
	verdicts := metrics.DayCompliance(view.Metrics.PerDay, period, day, view.Rules, view.Calendar)
	targets := view.Rules.Weekday
	if view.Calendar.IsRestDay(period, day) {
		targets = view.Rules.Weekend
	}
	var parts []string
	for _, code := range []roster.ShiftCode{roster.Day, roster.Evening, roster.Night} {
		target, _ := targets.For(code)
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ComplianceColor(verdicts[code])).
			Render(fmt.Sprintf("%c %d/%d", code.Letter(), view.Metrics.PerDay[day-1].Count(code), target)))
	}
	return "   " + strings.Join(parts, " ")
}

// renderModal draws a blocking notice in a bordered box.
func renderModal(notice editor.Notice, theme Theme, keys KeyMap) []string {
	hint := keys.Acknowledge.Help().Key + " ok"
	if offersForce(&notice) {
		hint = keys.ForceGenerate.Help().Key + " generate anyway • " + hint
	}
	if notice.Kind == editor.NoticeAuthExpired {
		hint = "log in again, then restart the editor • " + keys.Quit.Help().Key + " quit"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ModalBorder).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(noticeColor(notice.Kind, theme)).Render(notice.Message) +
			"  " + lipgloss.NewStyle().Foreground(theme.HelpText).Render(hint))
	return strings.Split(box, "\n")
}
