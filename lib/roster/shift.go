// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package roster

import (
	"fmt"
	"strings"
)

// ShiftCode is the value of one (nurse, day) cell.
type ShiftCode uint8

const (
	// Unassigned marks a cell nobody has filled yet. It is the zero
	// value so a freshly allocated row is empty.
	Unassigned ShiftCode = iota
	Day
	Evening
	Night
	Off
	// Mid is a mid-day shift. It counts as filled but has no column
	// in the per-type tallies.
	Mid
)

// TalliedShifts are the codes that get their own count in per-day
// and per-nurse statistics, in display order.
var TalliedShifts = [...]ShiftCode{Day, Evening, Night, Off}

var shiftLetters = [...]byte{
	Unassigned: 'X',
	Day:        'D',
	Evening:    'E',
	Night:      'N',
	Off:        'O',
	Mid:        'M',
}

var shiftNames = [...]string{
	Unassigned: "unassigned",
	Day:        "day",
	Evening:    "evening",
	Night:      "night",
	Off:        "off",
	Mid:        "mid",
}

// Letter returns the single-letter wire form (D, E, N, O, M, X).
func (code ShiftCode) Letter() byte {
	if int(code) < len(shiftLetters) {
		return shiftLetters[code]
	}
	return '?'
}

func (code ShiftCode) String() string {
	if int(code) < len(shiftNames) {
		return shiftNames[code]
	}
	return fmt.Sprintf("ShiftCode(%d)", uint8(code))
}

// Filled reports whether the cell holds a real assignment.
func (code ShiftCode) Filled() bool { return code != Unassigned }

// Valid reports whether code is one of the defined constants.
func (code ShiftCode) Valid() bool { return code <= Mid }

// ParseShiftCode decodes a wire letter. Lower case is accepted. An
// empty string decodes to Unassigned, matching rows the backend sends
// with no history.
func ParseShiftCode(letter string) (ShiftCode, error) {
	switch strings.ToUpper(letter) {
	case "D":
		return Day, nil
	case "E":
		return Evening, nil
	case "N":
		return Night, nil
	case "O":
		return Off, nil
	case "M":
		return Mid, nil
	case "X", "":
		return Unassigned, nil
	}
	return Unassigned, fmt.Errorf("roster: unknown shift letter %q", letter)
}

// ParseShifts decodes a shift string such as "DDENOX" into codes.
func ParseShifts(encoded string) ([]ShiftCode, error) {
	codes := make([]ShiftCode, 0, len(encoded))
	for index, letter := range encoded {
		code, err := ParseShiftCode(string(letter))
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", index, err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// FormatShifts encodes codes into their wire string.
func FormatShifts(codes []ShiftCode) string {
	var builder strings.Builder
	builder.Grow(len(codes))
	for _, code := range codes {
		builder.WriteByte(code.Letter())
	}
	return builder.String()
}

func (code ShiftCode) MarshalText() ([]byte, error) {
	if !code.Valid() {
		return nil, fmt.Errorf("roster: invalid shift code %d", uint8(code))
	}
	return []byte{code.Letter()}, nil
}

func (code *ShiftCode) UnmarshalText(text []byte) error {
	parsed, err := ParseShiftCode(string(text))
	if err != nil {
		return err
	}
	*code = parsed
	return nil
}
