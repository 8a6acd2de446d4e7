package key

import "time"

// Decoder tracks held keys from the raw event stream and emits decoded
// presses with the modifiers active at the time.
type Decoder struct {
	held    map[Pos]Key
	caps    bool
	fnSince time.Time
}

func NewDecoder() *Decoder {
	return &Decoder{held: make(map[Pos]Key)}
}

// Feed applies ev. It returns an Event for presses of non-modifier keys;
// releases, repeats of an already held key, modifiers and unknown positions
// return false.
func (d *Decoder) Feed(ev RawEvent, now time.Time) (Event, bool) {
	k, ok := Lookup(ev.Pos)
	if !ok {
		return Event{}, false
	}

	if !ev.Pressed {
		delete(d.held, ev.Pos)
		if k.Kind == KindFn && !d.Mods().Has(ModFn) {
			d.fnSince = time.Time{}
		}
		return Event{}, false
	}

	if _, already := d.held[ev.Pos]; already {
		return Event{}, false
	}
	d.held[ev.Pos] = k

	switch k.Kind {
	case KindCaps:
		d.caps = !d.caps
	case KindFn:
		if d.fnSince.IsZero() {
			d.fnSince = now
		}
	}
	if k.IsModifier() {
		return Event{}, false
	}
	return Event{Key: k, Mods: d.Mods(), Caps: d.caps}, true
}

// Mods is the set of modifiers currently held.
func (d *Decoder) Mods() Modifiers {
	var m Modifiers
	for _, k := range d.held {
		m |= modifierFor(k.Kind)
	}
	return m
}

// CapsLock reports whether Caps Lock is on.
func (d *Decoder) CapsLock() bool {
	return d.caps
}

// FnHeld is how long Fn has been held down, or zero.
func (d *Decoder) FnHeld(now time.Time) time.Duration {
	if d.fnSince.IsZero() {
		return 0
	}
	return now.Sub(d.fnSince)
}

// Reset forgets every held key. Caps Lock is kept.
func (d *Decoder) Reset() {
	d.held = make(map[Pos]Key)
	d.fnSince = time.Time{}
}
