package sim

import (
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/inkpad/pkg/key"
)

// Keyboard translates terminal key presses into matrix events on a
// key.Channel. Terminals report no releases, so every press is a tap, except
// Fn which toggles between held and released.
type Keyboard struct {
	ch     *key.Channel
	fnHeld bool
}

func NewKeyboard(ch *key.Channel) *Keyboard {
	return &Keyboard{ch: ch}
}

var named = map[tea.KeyType]key.Kind{
	tea.KeySpace:     key.KindSpace,
	tea.KeyEnter:     key.KindEnter,
	tea.KeyBackspace: key.KindBackspace,
	tea.KeyDelete:    key.KindDelete,
	tea.KeyTab:       key.KindTab,
	tea.KeyEsc:       key.KindEsc,
	tea.KeyUp:        key.KindUp,
	tea.KeyDown:      key.KindDown,
	tea.KeyLeft:      key.KindLeft,
	tea.KeyRight:     key.KindRight,
	tea.KeyPgUp:      key.KindPgUp,
	tea.KeyPgDown:    key.KindPgDn,
	tea.KeyHome:      key.KindHome,
}

// Translate maps a terminal key to a device key. Ctrl+J stands in for
// Shift+Enter, which terminals cannot tell apart from Enter.
func Translate(msg tea.KeyMsg) (key.Key, key.Modifiers, bool) {
	var mods key.Modifiers
	if msg.Alt {
		mods |= key.ModAlt
	}
	switch {
	case msg.Type == tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return key.Key{}, 0, false
		}
		k, m, ok := key.Typing(msg.Runes[0])
		return k, mods | m, ok
	case msg.Type == tea.KeyCtrlJ:
		return key.Named(key.KindEnter), mods | key.ModShift, true
	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ && msg.Type != tea.KeyTab && msg.Type != tea.KeyEnter:
		return key.Char(rune('a' + int(msg.Type-tea.KeyCtrlA))), mods | key.ModCtrl, true
	}
	if kind, ok := named[msg.Type]; ok {
		return key.Named(kind), mods, true
	}
	return key.Key{}, 0, false
}

// Press sends msg to the device. It reports false for keys with no device
// equivalent and when the event queue is full.
func (k *Keyboard) Press(msg tea.KeyMsg) bool {
	dk, mods, ok := Translate(msg)
	if !ok {
		return false
	}
	// A toggled Fn is already down on the matrix, so the decoder adds it.
	return k.ch.Tap(dk, mods)
}

// ToggleFn presses or releases Fn and reports whether it is now held.
func (k *Keyboard) ToggleFn() bool {
	p, ok := key.PositionOf(key.Named(key.KindFn))
	if !ok {
		return k.fnHeld
	}
	if k.ch.Push(key.RawEvent{Pos: p, Pressed: !k.fnHeld}) {
		k.fnHeld = !k.fnHeld
	}
	return k.fnHeld
}

func (k *Keyboard) FnHeld() bool {
	return k.fnHeld
}
