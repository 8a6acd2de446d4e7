package key

import (
	"context"
	"errors"
	"sync"
)

var ErrSourceClosed = errors.New("key: source closed")

// Source delivers raw matrix events from a keyboard controller.
type Source interface {
	// Next blocks until an event is available, ctx is done, or the source
	// is closed.
	Next(ctx context.Context) (RawEvent, error)
}

// Channel is a Source fed by Push. It is used by the terminal simulator and
// by tests to stand in for the controller's event FIFO.
type Channel struct {
	events chan RawEvent
	done   chan struct{}
	once   sync.Once
}

// NewChannel returns a Channel holding up to size undelivered events.
func NewChannel(size int) *Channel {
	return &Channel{
		events: make(chan RawEvent, size),
		done:   make(chan struct{}),
	}
}

// Push queues ev without blocking. It reports false when the queue is full
// or the channel is closed; like the controller FIFO, overflow is dropped.
func (c *Channel) Push(ev RawEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

// Tap pushes a press and release of k, surrounded by presses and releases of
// the modifiers in mods.
func (c *Channel) Tap(k Key, mods Modifiers) bool {
	var held []Pos
	for _, m := range []struct {
		mod  Modifiers
		kind Kind
	}{{ModCtrl, KindCtrl}, {ModAlt, KindAlt}, {ModShift, KindShift}, {ModFn, KindFn}} {
		if !mods.Has(m.mod) {
			continue
		}
		p, ok := PositionOf(Named(m.kind))
		if !ok {
			return false
		}
		held = append(held, p)
	}
	p, ok := PositionOf(k)
	if !ok {
		return false
	}

	for _, h := range held {
		if !c.Push(RawEvent{Pos: h, Pressed: true}) {
			return false
		}
	}
	ok = c.Push(RawEvent{Pos: p, Pressed: true}) && c.Push(RawEvent{Pos: p, Pressed: false})
	for i := len(held) - 1; i >= 0; i-- {
		ok = c.Push(RawEvent{Pos: held[i], Pressed: false}) && ok
	}
	return ok
}

func (c *Channel) Next(ctx context.Context) (RawEvent, error) {
	select {
	case ev := <-c.events:
		return ev, nil
	case <-ctx.Done():
		return RawEvent{}, ctx.Err()
	case <-c.done:
		return RawEvent{}, ErrSourceClosed
	}
}

// Close makes Next return ErrSourceClosed.
func (c *Channel) Close() {
	c.once.Do(func() { close(c.done) })
}
