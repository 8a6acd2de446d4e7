// Package power decides when an idle device shows its screensaver and when
// it goes to sleep.
package power

import (
	"context"
	"sync"
	"time"

	"tableflip.dev/inkpad/pkg/schedule"
)

type State int

const (
	Awake State = iota
	Screensaver
	Asleep
)

func (s State) String() string {
	switch s {
	case Awake:
		return "awake"
	case Screensaver:
		return "screensaver"
	case Asleep:
		return "asleep"
	}
	return "unknown"
}

// Config holds the idle thresholds. A zero threshold disables that step.
type Config struct {
	Screensaver time.Duration
	Sleep       time.Duration
}

// Sleeper suspends the device until it is woken.
type Sleeper interface {
	Sleep(ctx context.Context) error
}

// Monitor moves the device through Awake, Screensaver and Asleep as idle time
// grows, and back to Awake on the next key. Each step fires once per idle
// period.
type Monitor struct {
	cfg      Config
	activity *schedule.Activity

	mu    sync.Mutex
	state State
	woken chan struct{}
}

func New(activity *schedule.Activity, cfg Config) *Monitor {
	return &Monitor{cfg: cfg, activity: activity}
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Check returns the state the device should move to at now, or Awake when
// nothing changes. The caller flushes pending saves before acting on it.
func (m *Monitor) Check(now time.Time) State {
	idle := m.activity.Idle(now)

	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case Awake:
		if m.cfg.Sleep > 0 && idle >= m.cfg.Sleep {
			return m.enter(Asleep)
		}
		if m.cfg.Screensaver > 0 && idle >= m.cfg.Screensaver {
			return m.enter(Screensaver)
		}
	case Screensaver:
		if m.cfg.Sleep > 0 && idle >= m.cfg.Sleep {
			return m.enter(Asleep)
		}
	}
	return Awake
}

func (m *Monitor) enter(s State) State {
	m.state = s
	if s == Asleep && m.woken == nil {
		m.woken = make(chan struct{})
	}
	return s
}

// Wake records key activity and returns the state the device was in.
func (m *Monitor) Wake() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	m.state = Awake
	if m.woken != nil {
		close(m.woken)
		m.woken = nil
	}
	return prev
}

// Sleep blocks until Wake is called or ctx is done. It returns at once when
// the monitor is not asleep.
func (m *Monitor) Sleep(ctx context.Context) error {
	m.mu.Lock()
	ch := m.woken
	m.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
