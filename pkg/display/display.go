// Package display defines the panel contract and the frames drawn on it.
package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrBusy = errors.New("display: panel busy")

// RefreshKind is the physical refresh mode of the e-ink panel. Kinds are
// ordered by strength: a stronger pending refresh is never replaced by a
// weaker one.
type RefreshKind int

const (
	RefreshNone RefreshKind = iota
	RefreshPartial
	RefreshFull
	RefreshClear
)

func (k RefreshKind) String() string {
	switch k {
	case RefreshNone:
		return "none"
	case RefreshPartial:
		return "partial"
	case RefreshFull:
		return "full"
	case RefreshClear:
		return "clear"
	}
	return fmt.Sprintf("RefreshKind(%d)", int(k))
}

// Stronger returns whichever of k and o wins when both are pending.
func (k RefreshKind) Stronger(o RefreshKind) RefreshKind {
	if o > k {
		return o
	}
	return k
}

// Sink is the panel driver. Render loads a frame into the controller's RAM;
// Refresh makes it visible and blocks until the panel is ready again.
type Sink interface {
	Render(f *Frame) error
	Refresh(ctx context.Context, kind RefreshKind) error
	Busy() bool
}

// Bus serializes access to a Sink. The panel sits on one serial bus, and a
// render followed by its refresh must not interleave with another frame.
type Bus struct {
	mu   sync.Mutex
	sink Sink
}

func NewBus(s Sink) *Bus {
	return &Bus{sink: s}
}

// Show renders f and refreshes the panel with kind.
func (b *Bus) Show(ctx context.Context, f *Frame, kind RefreshKind) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.sink.Render(f); err != nil {
		return fmt.Errorf("display: render: %w", err)
	}
	if err := b.sink.Refresh(ctx, kind); err != nil {
		return fmt.Errorf("display: %s refresh: %w", kind, err)
	}
	return nil
}

// Busy reports whether the panel is mid-refresh.
func (b *Bus) Busy() bool {
	return b.sink.Busy()
}
