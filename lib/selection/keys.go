// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package selection

import (
	"unicode"

	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// KeyKind classifies a key event.
type KeyKind uint8

const (
	KeyNone KeyKind = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyDelete
	KeyBackspace
	// KeyRune carries a printable character in KeyEvent.Rune.
	KeyRune
)

// KeyEvent is one keydown.
type KeyEvent struct {
	Kind KeyKind
	Rune rune

	// Repeat is set for keydowns generated by holding a key. Those are
	// ignored.
	Repeat bool
}

// Rune returns a KeyRune event for r.
func Rune(r rune) KeyEvent { return KeyEvent{Kind: KeyRune, Rune: r} }

// KeyTable maps input characters to shift codes. Latin letters are
// stored upper case; lookups upper-case their input first. The Korean
// entries are the dubeolsik jamo on the same physical keys as the
// Latin letters (D=ㅇ, E=ㄷ, N=ㅜ, O=ㅐ, X=ㅌ), plus the jamo those keys
// produce with Shift held (E=ㄸ, O=ㅒ). Mid has no key.
var KeyTable = map[rune]roster.ShiftCode{
	'D': roster.Day,
	'E': roster.Evening,
	'N': roster.Night,
	'O': roster.Off,
	'X': roster.Unassigned,

	'ㅇ': roster.Day,
	'ㄷ': roster.Evening,
	'ㄸ': roster.Evening,
	'ㅜ': roster.Night,
	'ㅐ': roster.Off,
	'ㅒ': roster.Off,
	'ㅌ': roster.Unassigned,
}

// LookupShift resolves r through KeyTable.
func LookupShift(r rune) (roster.ShiftCode, bool) {
	code, ok := KeyTable[unicode.ToUpper(r)]
	return code, ok
}
