// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rosterui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dutymate/dutymate-v2-sub000/lib/metrics"
	"github.com/dutymate/dutymate-v2-sub000/lib/overlay"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// Theme is the color palette of the roster editor. Colors are ANSI
// 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Shift letters, indexed by roster.ShiftCode.
	ShiftColors [6]lipgloss.Color

	// Cursor and its row/column crosshair.
	SelectedBackground  lipgloss.Color
	SelectedForeground  lipgloss.Color
	CrosshairBackground lipgloss.Color

	// Weekend and holiday day headers.
	RestDay lipgloss.Color

	// Cells inside a violation interval, and the marker lane.
	ViolationBackground lipgloss.Color
	ViolationForeground lipgloss.Color

	// Shift request underline colors per request state.
	RequestHold     lipgloss.Color
	RequestAccepted lipgloss.Color
	RequestDenied   lipgloss.Color

	// Footer verdicts.
	Compliant    lipgloss.Color
	NonCompliant lipgloss.Color

	// Notices.
	InfoText     lipgloss.Color
	WarningText  lipgloss.Color
	ErrorText    lipgloss.Color
	ModalBorder  lipgloss.Color
	HeaderText   lipgloss.Color
	BorderColor  lipgloss.Color
	HelpText     lipgloss.Color
	ProgressFill lipgloss.Color
}

// DefaultTheme targets 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),

	ShiftColors: [6]lipgloss.Color{
		roster.Unassigned: lipgloss.Color("240"),
		roster.Day:        lipgloss.Color("114"), // green
		roster.Evening:    lipgloss.Color("220"), // amber
		roster.Night:      lipgloss.Color("141"), // purple
		roster.Off:        lipgloss.Color("245"), // gray
		roster.Mid:        lipgloss.Color("75"),  // blue
	},

	SelectedBackground:  lipgloss.Color("31"),
	SelectedForeground:  lipgloss.Color("255"),
	CrosshairBackground: lipgloss.Color("236"),

	RestDay: lipgloss.Color("203"),

	ViolationBackground: lipgloss.Color("52"),
	ViolationForeground: lipgloss.Color("210"),

	RequestHold:     lipgloss.Color("250"),
	RequestAccepted: lipgloss.Color("114"),
	RequestDenied:   lipgloss.Color("203"),

	Compliant:    lipgloss.Color("114"),
	NonCompliant: lipgloss.Color("203"),

	InfoText:     lipgloss.Color("75"),
	WarningText:  lipgloss.Color("220"),
	ErrorText:    lipgloss.Color("203"),
	ModalBorder:  lipgloss.Color("220"),
	HeaderText:   lipgloss.Color("255"),
	BorderColor:  lipgloss.Color("240"),
	HelpText:     lipgloss.Color("241"),
	ProgressFill: lipgloss.Color("114"),
}

// ShiftColor returns the color of code; out-of-range codes get
// NormalText.
func (theme Theme) ShiftColor(code roster.ShiftCode) lipgloss.Color {
	if int(code) >= len(theme.ShiftColors) {
		return theme.NormalText
	}
	return theme.ShiftColors[code]
}

// ComplianceColor returns the footer color for a verdict.
func (theme Theme) ComplianceColor(verdict metrics.Compliance) lipgloss.Color {
	switch verdict {
	case metrics.ComplianceCompliant:
		return theme.Compliant
	case metrics.ComplianceNonCompliant:
		return theme.NonCompliant
	default:
		return theme.NormalText
	}
}

// RequestColor returns the underline color for a request state.
func (theme Theme) RequestColor(state roster.RequestState) lipgloss.Color {
	switch state {
	case roster.RequestAccepted:
		return theme.RequestAccepted
	case roster.RequestDenied:
		return theme.RequestDenied
	default:
		return theme.RequestHold
	}
}

// HighlightBackground returns the background for a highlight kind, and
// false when the cell keeps the terminal background.
func (theme Theme) HighlightBackground(kind overlay.HighlightKind) (lipgloss.Color, bool) {
	switch kind {
	case overlay.HighlightSelf:
		return theme.SelectedBackground, true
	case overlay.HighlightSameRow, overlay.HighlightSameColumn:
		return theme.CrosshairBackground, true
	default:
		return "", false
	}
}

// ColorProfile resolves a --color flag value (auto, always, never) for
// output. auto honors NO_COLOR and CLICOLOR_FORCE and the terminal's
// capabilities.
func ColorProfile(mode string, output io.Writer) (termenv.Profile, error) {
	switch mode {
	case "", "auto":
		return termenv.NewOutput(output).EnvColorProfile(), nil
	case "always":
		return termenv.ANSI256, nil
	case "never":
		return termenv.Ascii, nil
	default:
		return termenv.Ascii, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
	}
}
