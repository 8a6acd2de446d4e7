// Package key turns raw keyboard matrix events into semantic keys.
//
// A Key is a tagged variant: Kind says what the key is, and for KindChar the
// Rune holds the unshifted character printed on the keycap.
package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind identifies a key.
type Kind int

const (
	KindNone Kind = iota
	KindChar
	KindSpace
	KindEnter
	KindBackspace
	KindDelete
	KindTab
	KindEsc
	KindUp
	KindDown
	KindLeft
	KindRight
	KindPgUp
	KindPgDn
	KindHome
	KindShift
	KindCtrl
	KindAlt
	KindFn
	KindCaps
	KindWin
)

var kindLabels = map[Kind]string{
	KindSpace:     "Space",
	KindEnter:     "Enter",
	KindBackspace: "Backspace",
	KindDelete:    "Del",
	KindTab:       "Tab",
	KindEsc:       "Esc",
	KindUp:        "Up",
	KindDown:      "Down",
	KindLeft:      "Left",
	KindRight:     "Right",
	KindPgUp:      "PgUp",
	KindPgDn:      "PgDn",
	KindHome:      "Home",
	KindShift:     "Shift",
	KindCtrl:      "Ctrl",
	KindAlt:       "Alt",
	KindFn:        "Fn",
	KindCaps:      "Caps",
	KindWin:       "Win",
}

// Key is one semantic key.
type Key struct {
	Kind Kind
	Rune rune
}

// Char returns the character key for r. Letters are stored lower case.
func Char(r rune) Key {
	return Key{Kind: KindChar, Rune: unicode.ToLower(r)}
}

// Named returns a non-character key.
func Named(k Kind) Key {
	return Key{Kind: k}
}

// String is the keycap label.
func (k Key) String() string {
	if k.Kind == KindChar {
		return strings.ToUpper(string(k.Rune))
	}
	if l, ok := kindLabels[k.Kind]; ok {
		return l
	}
	return fmt.Sprintf("Key(%d)", int(k.Kind))
}

// IsModifier reports whether the key only changes how other keys are read.
func (k Key) IsModifier() bool {
	switch k.Kind {
	case KindShift, KindCtrl, KindAlt, KindFn, KindCaps, KindWin:
		return true
	}
	return false
}

// Parse maps a keycap label back to a Key.
func Parse(label string) (Key, bool) {
	for kind, l := range kindLabels {
		if l == label {
			return Named(kind), true
		}
	}
	if r := []rune(label); len(r) == 1 {
		return Char(r[0]), true
	}
	return Key{}, false
}

// Modifiers is the set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModFn
)

func (m Modifiers) Has(x Modifiers) bool {
	return m&x == x
}

func (m Modifiers) String() string {
	var parts []string
	for _, p := range []struct {
		mod  Modifiers
		name string
	}{{ModCtrl, "Ctrl"}, {ModAlt, "Alt"}, {ModShift, "Shift"}, {ModFn, "Fn"}} {
		if m.Has(p.mod) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "+")
}

func modifierFor(k Kind) Modifiers {
	switch k {
	case KindShift:
		return ModShift
	case KindCtrl:
		return ModCtrl
	case KindAlt:
		return ModAlt
	case KindFn:
		return ModFn
	}
	return 0
}

// Event is a decoded key press.
type Event struct {
	Key  Key
	Mods Modifiers
	Caps bool
}

func (e Event) Shift() bool { return e.Mods.Has(ModShift) }
func (e Event) Ctrl() bool  { return e.Mods.Has(ModCtrl) }
func (e Event) Alt() bool   { return e.Mods.Has(ModAlt) }

// Is reports whether the event is key k with exactly the modifiers mods.
func (e Event) Is(k Kind, mods Modifiers) bool {
	return e.Key.Kind == k && e.Mods == mods
}

func (e Event) String() string {
	if e.Mods == 0 {
		return e.Key.String()
	}
	return e.Mods.String() + "+" + e.Key.String()
}

var shifted = map[rune]rune{
	'1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')',
	'-': '_', '=': '+', '[': '{', ']': '}', '\\': '|',
	';': ':', '\'': '"', ',': '<', '.': '>', '/': '?',
	'`': '~',
}

// Glyph is the character a printable key produces. Shift and Caps Lock
// cancel each other for letters; Caps Lock does not affect punctuation.
func (e Event) Glyph() (rune, bool) {
	if e.Key.Kind != KindChar {
		return 0, false
	}
	r := e.Key.Rune
	if unicode.IsLetter(r) {
		if e.Shift() != e.Caps {
			return unicode.ToUpper(r), true
		}
		return unicode.ToLower(r), true
	}
	if e.Shift() {
		if s, ok := shifted[r]; ok {
			return s, true
		}
	}
	return r, true
}

// Typing returns the key and modifiers that produce r, the inverse of Glyph
// with Caps Lock off. Space is KindSpace.
func Typing(r rune) (Key, Modifiers, bool) {
	if r == ' ' {
		return Named(KindSpace), 0, true
	}
	if unicode.IsUpper(r) {
		return Char(r), ModShift, true
	}
	for base, s := range shifted {
		if s == r {
			return Char(base), ModShift, true
		}
	}
	if unicode.IsPrint(r) {
		return Char(r), 0, true
	}
	return Key{}, 0, false
}
