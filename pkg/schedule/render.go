package schedule

import (
	"context"
	"sync"
	"time"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/logging"
)

// RenderConfig holds the refresh debounce timings.
type RenderConfig struct {
	// MinInterval is the least time between two physical refreshes.
	MinInterval time.Duration
	// Quiet is how long typing must pause before a debounced refresh runs.
	Quiet time.Duration
}

// Compose builds the frame to show. It is called when a refresh starts, so
// the frame always reflects the current state.
type Compose func() *display.Frame

// Render coalesces refresh requests into at most one pending refresh and
// performs it on Drain.
type Render struct {
	cfg      RenderConfig
	clock    Clock
	activity *Activity
	bus      *display.Bus
	compose  Compose

	mu          sync.Mutex
	pending     display.RefreshKind
	forced      bool
	lastRefresh time.Time
	refreshes   int

	wake chan struct{}
}

func NewRender(bus *display.Bus, compose Compose, activity *Activity, clock Clock, cfg RenderConfig) *Render {
	return &Render{
		cfg:      cfg,
		clock:    clock,
		activity: activity,
		bus:      bus,
		compose:  compose,
		wake:     make(chan struct{}, 1),
	}
}

// Request asks for a refresh once typing pauses.
func (r *Render) Request(kind display.RefreshKind) {
	r.request(kind, false)
}

// RequestNow asks for a refresh that does not wait for typing to pause.
func (r *Render) RequestNow(kind display.RefreshKind) {
	r.request(kind, true)
}

func (r *Render) request(kind display.RefreshKind, forced bool) {
	if kind == display.RefreshNone {
		return
	}
	r.mu.Lock()
	r.pending = r.pending.Stronger(kind)
	r.forced = r.forced || forced
	r.mu.Unlock()
	notify(r.wake)
}

// Wake fires after a request so an idle worker can look again.
func (r *Render) Wake() <-chan struct{} {
	return r.wake
}

// Pending is the kind of the refresh waiting to run.
func (r *Render) Pending() display.RefreshKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Refreshes counts physical refreshes attempted.
func (r *Render) Refreshes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes
}

func (r *Render) due(now time.Time) bool {
	if r.pending == display.RefreshNone {
		return false
	}
	if !r.lastRefresh.IsZero() && now.Sub(r.lastRefresh) < r.cfg.MinInterval {
		return false
	}
	return r.forced || r.activity.Idle(now) >= r.cfg.Quiet
}

// Drain performs the pending refresh if it is due. It blocks for as long as
// the panel takes and reports whether a refresh ran. Panel errors are logged
// and the refresh is dropped.
func (r *Render) Drain(ctx context.Context) bool {
	r.mu.Lock()
	if !r.due(r.clock.Now()) {
		r.mu.Unlock()
		return false
	}
	kind := r.pending
	r.pending = display.RefreshNone
	r.forced = false
	r.refreshes++
	r.mu.Unlock()

	frame := r.compose()
	if err := r.bus.Show(ctx, frame, kind); err != nil {
		logging.Errorf("render: %v", err)
	} else {
		logging.Debugf("render: %s refresh", kind)
	}

	r.mu.Lock()
	r.lastRefresh = r.clock.Now()
	r.mu.Unlock()
	return true
}
