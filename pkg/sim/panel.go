// Package sim runs the device against a terminal: the panel is drawn with
// bubbletea and terminal key presses are fed in as matrix events.
package sim

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/inkpad/pkg/display"
)

// refreshMsg carries a completed refresh to the model.
type refreshMsg struct {
	frame *display.Frame
	kind  display.RefreshKind
}

// busyMsg marks the start of a refresh.
type busyMsg struct{}

// Panel is a display.Sink that takes as long as an e-ink refresh and then
// hands the frame to the terminal program.
type Panel struct {
	Partial time.Duration
	Full    time.Duration

	mu      sync.Mutex
	pending *display.Frame
	busy    bool
	send    func(tea.Msg)
}

func NewPanel(partial, full time.Duration) *Panel {
	return &Panel{Partial: partial, Full: full}
}

// Attach routes refreshes to send, normally (*tea.Program).Send.
func (p *Panel) Attach(send func(tea.Msg)) {
	p.mu.Lock()
	p.send = send
	p.mu.Unlock()
}

func (p *Panel) Render(f *display.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return display.ErrBusy
	}
	p.pending = f
	return nil
}

func (p *Panel) Refresh(ctx context.Context, kind display.RefreshKind) error {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return display.ErrBusy
	}
	p.busy = true
	frame, send := p.pending, p.send
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.busy = false
		p.mu.Unlock()
	}()

	if send != nil {
		send(busyMsg{})
	}
	select {
	case <-time.After(p.latency(kind)):
	case <-ctx.Done():
		return ctx.Err()
	}
	if send != nil {
		send(refreshMsg{frame: frame, kind: kind})
	}
	return nil
}

func (p *Panel) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

func (p *Panel) latency(kind display.RefreshKind) time.Duration {
	switch kind {
	case display.RefreshPartial:
		return p.Partial
	case display.RefreshClear:
		// Clear flashes the panel twice.
		return 2 * p.Full
	}
	return p.Full
}
