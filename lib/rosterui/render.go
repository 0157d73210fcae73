// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/export"
	"github.com/dutymate/dutymate-v2-sub000/lib/metrics"
	"github.com/dutymate/dutymate-v2-sub000/lib/overlay"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/selection"
)

// Frame is everything RenderGrid needs to draw one period.
type Frame struct {
	Snapshot  roster.Snapshot
	Metrics   metrics.Metrics
	Overlay   *overlay.Index
	Rules     *roster.Rules
	Calendar  roster.Calendar
	Selection selection.State
	OffDays   int
}

// FrameOf extracts the drawable part of a session view.
func FrameOf(view editor.View) Frame {
	return Frame{
		Snapshot:  view.Snapshot,
		Metrics:   view.Metrics,
		Overlay:   view.Overlay,
		Rules:     view.Rules,
		Calendar:  view.Calendar,
		Selection: view.Selection,
		OffDays:   view.OffDays,
	}
}

// DocumentFrame builds a frame from an exported document. Exports
// carry no requests, so only violations are overlaid. rules may be nil.
func DocumentFrame(document export.Document, calendar roster.Calendar, rules *roster.Rules) Frame {
	grid := document.Snapshot.Grid
	return Frame{
		Snapshot: document.Snapshot,
		Metrics:  metrics.Compute(grid, document.Snapshot.Violations),
		Overlay:  overlay.Build(grid.Days(), document.Snapshot.Violations, nil),
		Rules:    rules,
		Calendar: calendar,
		OffDays:  document.OffDays,
	}
}

// RenderOptions controls grid geometry.
type RenderOptions struct {
	// CellWidth is the width of one day column. Minimum 2.
	CellWidth int

	// NameWidth is the display width of the name column. Wide
	// (Hangul) characters count double.
	NameWidth int
}

// DefaultRenderOptions fits a 31-day month in 150 columns.
var DefaultRenderOptions = RenderOptions{CellWidth: 3, NameWidth: 10}

func (options RenderOptions) normalized() RenderOptions {
	if options.CellWidth < 2 {
		options.CellWidth = DefaultRenderOptions.CellWidth
	}
	if options.NameWidth < 4 {
		options.NameWidth = DefaultRenderOptions.NameWidth
	}
	return options
}

// footerLabels name the aggregate rows under the nurses.
var footerLabels = []string{"D", "E", "N", "O", "Total"}

const statWidth = 3

// gridParts is a rendered grid split so the caller can scroll the
// nurse rows while the header and footer stay put.
type gridParts struct {
	header []string
	body   []string
	footer []string

	// lineRows maps each body line to its nurse row; marker lanes
	// map to -1.
	lineRows []int

	// selectedLine is the body line of the selected nurse row, or -1.
	selectedLine int

	// prefixWidth is the screen column of day 1.
	prefixWidth int
}

// RenderGrid draws frame as a title line, the day header, one line per
// nurse (plus a violation marker lane under the selected nurse), and
// the per-day footer tallies.
func RenderGrid(frame Frame, theme Theme, options RenderOptions) string {
	parts := renderParts(frame, theme, options)
	lines := make([]string, 0, len(parts.header)+len(parts.body)+len(parts.footer))
	lines = append(lines, parts.header...)
	lines = append(lines, parts.body...)
	lines = append(lines, parts.footer...)
	return strings.Join(lines, "\n")
}

type gridRenderer struct {
	frame    Frame
	theme    Theme
	options  RenderOptions
	grid     roster.Grid
	period   roster.Period
	days     int
	layout   overlay.Layout
	prevWide int
}

func renderParts(frame Frame, theme Theme, options RenderOptions) gridParts {
	options = options.normalized()
	grid := frame.Snapshot.Grid
	renderer := gridRenderer{
		frame:   frame,
		theme:   theme,
		options: options,
		grid:    grid,
		period:  grid.Period,
		days:    grid.Days(),
		layout: overlay.Layout{
			Nurses:     len(grid.Rows),
			Days:       grid.Days(),
			FooterRows: len(footerLabels),
		},
		prevWide: len("Prev"),
	}
	for _, nurse := range grid.Rows {
		renderer.prevWide = max(renderer.prevWide, len(nurse.Trailing))
	}
	if renderer.frame.Overlay == nil {
		renderer.frame.Overlay = overlay.Build(renderer.days, frame.Snapshot.Violations, nil)
	}

	parts := gridParts{selectedLine: -1, prefixWidth: renderer.prefixWidth()}
	parts.header = []string{renderer.title(), renderer.dayHeader(), renderer.weekdayHeader()}
	for row := range grid.Rows {
		if frame.Selection.Active && frame.Selection.Row == row {
			parts.selectedLine = len(parts.body)
		}
		parts.body = append(parts.body, renderer.nurseLine(row))
		parts.lineRows = append(parts.lineRows, row)
		if frame.Selection.Active && frame.Selection.Row == row {
			if lane, ok := renderer.markerLane(grid.Rows[row].NurseID); ok {
				parts.body = append(parts.body, lane)
				parts.lineRows = append(parts.lineRows, -1)
			}
		}
	}
	parts.footer = append(parts.footer, renderer.rule())
	for k := range footerLabels {
		parts.footer = append(parts.footer, renderer.footerLine(k))
	}
	return parts
}

func (renderer gridRenderer) title() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(renderer.theme.HeaderText)
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	return title.Render(fmt.Sprintf("%d. %02d", renderer.period.Year, int(renderer.period.Month))) +
		faint.Render(fmt.Sprintf("   off days %d   progress %s   invalid %d",
			renderer.frame.OffDays,
			progressBar(renderer.frame.Metrics.Progress, renderer.theme),
			renderer.frame.Snapshot.InvalidCount))
}

// progressBar draws percent as a ten-slot bar.
func progressBar(percent int, theme Theme) string {
	percent = min(max(percent, 0), 100)
	filled := percent / 10
	bar := lipgloss.NewStyle().Foreground(theme.ProgressFill).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.BorderColor).Render(strings.Repeat("░", 10-filled))
	return bar + " " + strconv.Itoa(percent) + "%"
}

func (renderer gridRenderer) prefixWidth() int {
	return renderer.options.NameWidth + 1 + renderer.prevWide + 1
}

func (renderer gridRenderer) dayHeader() string {
	var line strings.Builder
	faint := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
	line.WriteString(faint.Render(pad("Name", renderer.options.NameWidth) + " " + pad("Prev", renderer.prevWide) + " "))
	for day := 1; day <= renderer.days; day++ {
		style := lipgloss.NewStyle().Foreground(renderer.theme.NormalText)
		if renderer.frame.Calendar.IsRestDay(renderer.period, day) {
			style = style.Foreground(renderer.theme.RestDay)
		}
		if renderer.frame.Selection.Active && renderer.frame.Selection.Col == day-1 {
			style = style.Bold(true).Underline(true)
		}
		line.WriteString(style.Render(padLeft(strconv.Itoa(day), renderer.options.CellWidth)))
	}
	line.WriteString(" ")
	for _, code := range roster.TalliedShifts {
		line.WriteString(lipgloss.NewStyle().Foreground(renderer.theme.ShiftColor(code)).
			Render(padLeft(string(code.Letter()), statWidth)))
	}
	return line.String()
}

func (renderer gridRenderer) weekdayHeader() string {
	var line strings.Builder
	line.WriteString(strings.Repeat(" ", renderer.prefixWidth()))
	for day := 1; day <= renderer.days; day++ {
		style := lipgloss.NewStyle().Foreground(renderer.theme.FaintText)
		if renderer.frame.Calendar.IsRestDay(renderer.period, day) {
			style = style.Foreground(renderer.theme.RestDay)
		}
		label := renderer.period.Weekday(day).String()[:min(renderer.options.CellWidth-1, 3)]
		line.WriteString(style.Render(padLeft(label, renderer.options.CellWidth)))
	}
	return line.String()
}

func (renderer gridRenderer) rule() string {
	width := renderer.prefixWidth() + renderer.days*renderer.options.CellWidth + 1 + statWidth*overlay.StatColumns
	return lipgloss.NewStyle().Foreground(renderer.theme.BorderColor).Render(strings.Repeat("─", width))
}

// highlighted applies the selection crosshair to style.
func (renderer gridRenderer) highlighted(style lipgloss.Style, row, col int) lipgloss.Style {
	kind := overlay.Highlight(renderer.frame.Selection, renderer.layout, row, col)
	background, ok := renderer.theme.HighlightBackground(kind)
	if !ok {
		return style
	}
	style = style.Background(background)
	if kind == overlay.HighlightSelf {
		style = style.Foreground(renderer.theme.SelectedForeground).Bold(true)
	}
	return style
}

func (renderer gridRenderer) nurseLine(row int) string {
	nurse := renderer.grid.Rows[row]
	theme := renderer.theme
	var line strings.Builder

	nameStyle := renderer.highlighted(lipgloss.NewStyle().Foreground(theme.NormalText), row, overlay.NameColumn)
	if nurse.Role == roster.HeadNurse {
		nameStyle = nameStyle.Bold(true)
	}
	line.WriteString(nameStyle.Render(pad(nurse.Name, renderer.options.NameWidth)))
	line.WriteString(" ")

	trailingStyle := renderer.highlighted(lipgloss.NewStyle().Foreground(theme.FaintText), row, overlay.TrailingColumn)
	line.WriteString(trailingStyle.Render(padLeft(roster.FormatShifts(nurse.Trailing), renderer.prevWide)))
	line.WriteString(" ")

	for col, code := range nurse.Shifts {
		line.WriteString(renderer.dayCell(row, col, nurse.NurseID, code))
	}
	line.WriteString(" ")

	counts := metrics.NurseCounts{}
	if row < len(renderer.frame.Metrics.PerNurse) {
		counts = renderer.frame.Metrics.PerNurse[row]
	}
	for k, code := range roster.TalliedShifts {
		style := renderer.highlighted(lipgloss.NewStyle().Foreground(theme.NormalText), row, overlay.StatColumn(renderer.days, k))
		if code == roster.Off && counts.Count(roster.Off) < renderer.frame.OffDays {
			style = style.Foreground(theme.WarningText)
		}
		line.WriteString(style.Render(padLeft(strconv.Itoa(counts.Count(code)), statWidth)))
	}
	return line.String()
}

func (renderer gridRenderer) dayCell(row, col int, nurseID int64, code roster.ShiftCode) string {
	theme := renderer.theme
	day := col + 1
	style := lipgloss.NewStyle().Foreground(theme.ShiftColor(code))
	text := "·"
	if code.Filled() {
		text = string(code.Letter())
	}
	if request, ok := renderer.frame.Overlay.RequestAt(nurseID, day); ok {
		style = style.Underline(true)
		if !code.Filled() {
			// Show the requested shift in place of the blank.
			text = strings.ToLower(string(request.Shift.Letter()))
			style = style.Foreground(theme.RequestColor(request.Status))
		}
	}
	if renderer.frame.Overlay.Covered(nurseID, day) {
		style = style.Background(theme.ViolationBackground)
	}
	style = renderer.highlighted(style, row, col)
	return style.Render(center(text, renderer.options.CellWidth))
}

// markerLane draws one bracket per marker of nurseID under its day
// columns. A merged marker shows its violation count.
func (renderer gridRenderer) markerLane(nurseID int64) (string, bool) {
	markers := renderer.frame.Overlay.Markers(nurseID)
	if len(markers) == 0 {
		return "", false
	}
	cellWidth := renderer.options.CellWidth
	lane := []rune(strings.Repeat(" ", renderer.days*cellWidth))
	for _, marker := range markers {
		width := marker.Width(cellWidth)
		start := (marker.StartDay - 1) * cellWidth
		bracket := []rune("└" + strings.Repeat("─", max(width-2, 0)) + "┘")
		if marker.Count > 1 && width >= 3 {
			copy(bracket[width/2:], []rune(strconv.Itoa(min(marker.Count, 9))))
		}
		copy(lane[start:], bracket)
	}
	style := lipgloss.NewStyle().Foreground(renderer.theme.ViolationForeground)
	return strings.Repeat(" ", renderer.prefixWidth()) + style.Render(string(lane)), true
}

func (renderer gridRenderer) footerLine(k int) string {
	theme := renderer.theme
	label := footerLabels[k]
	row := overlay.FooterRow(renderer.layout.Nurses, k)
	var line strings.Builder
	line.WriteString(lipgloss.NewStyle().Foreground(theme.FaintText).Italic(true).
		Render(pad(label, renderer.prefixWidth())))

	code, parseErr := roster.ParseShiftCode(label)
	for col := 0; col < renderer.days; col++ {
		counts := metrics.DayCounts{}
		if col < len(renderer.frame.Metrics.PerDay) {
			counts = renderer.frame.Metrics.PerDay[col]
		}
		value := counts.Total
		style := lipgloss.NewStyle().Foreground(theme.NormalText)
		if parseErr == nil {
			value = counts.Count(code)
			verdicts := metrics.DayCompliance(renderer.frame.Metrics.PerDay, renderer.period, col+1, renderer.frame.Rules, renderer.frame.Calendar)
			if verdict, ok := verdicts[code]; ok {
				style = style.Foreground(theme.ComplianceColor(verdict))
			}
		}
		style = renderer.highlighted(style, row, col)
		line.WriteString(style.Render(padLeft(strconv.Itoa(value), renderer.options.CellWidth)))
	}
	return line.String()
}

// pad truncates text to width display cells and fills the rest with
// spaces.
func pad(text string, width int) string {
	text = ansi.Truncate(text, width, "…")
	return text + strings.Repeat(" ", max(width-ansi.StringWidth(text), 0))
}

func padLeft(text string, width int) string {
	text = ansi.Truncate(text, width, "")
	return strings.Repeat(" ", max(width-ansi.StringWidth(text), 0)) + text
}

func center(text string, width int) string {
	text = ansi.Truncate(text, width, "")
	gap := max(width-ansi.StringWidth(text), 0)
	left := gap / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", gap-left)
}
