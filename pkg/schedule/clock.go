// Package schedule debounces panel refreshes and batches document saves so
// neither runs per keystroke.
package schedule

import (
	"sync"
	"time"
)

// Clock tells the schedulers what time it is.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock.
var System Clock = systemClock{}

// FakeClock is a Clock moved by hand.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Activity records when the last key event arrived.
type Activity struct {
	mu   sync.Mutex
	last time.Time
}

func (a *Activity) Touch(t time.Time) {
	a.mu.Lock()
	if t.After(a.last) {
		a.last = t
	}
	a.mu.Unlock()
}

func (a *Activity) Last() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Idle is how long it has been since the last key at now. Before any key it
// is measured from the zero time, so it is very large.
func (a *Activity) Idle(now time.Time) time.Duration {
	return now.Sub(a.Last())
}

// notify does a non-blocking send on a one-slot wake channel.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
