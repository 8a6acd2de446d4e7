package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/store"
)

// PersistConfig holds the save batching timings.
type PersistConfig struct {
	// Throttle is the least time between two background flushes.
	Throttle time.Duration
	// Quiet is how long typing must pause before a background flush runs.
	Quiet time.Duration
}

// Save writes one document to s. It runs at flush time, so it reads the
// content to save then rather than when it was requested.
type Save func(s store.Sink) error

// Content returns a Save that writes content verbatim.
func Content(name, content string) Save {
	return func(s store.Sink) error {
		return s.Write(name, content)
	}
}

// Persist keeps at most one pending save per document name.
type Persist struct {
	cfg      PersistConfig
	clock    Clock
	activity *Activity
	sink     store.Sink

	mu        sync.Mutex
	pending   map[string]Save
	lastFlush time.Time

	// flushMu keeps background and forced flushes from writing at once.
	flushMu sync.Mutex

	// OnError is told about failed background saves.
	OnError func(name string, err error)

	wake chan struct{}
}

func NewPersist(sink store.Sink, activity *Activity, clock Clock, cfg PersistConfig) *Persist {
	return &Persist{
		cfg:      cfg,
		clock:    clock,
		activity: activity,
		sink:     sink,
		pending:  make(map[string]Save),
		wake:     make(chan struct{}, 1),
	}
}

// Request replaces any pending save for name.
func (p *Persist) Request(name string, save Save) {
	p.mu.Lock()
	p.pending[name] = save
	p.mu.Unlock()
	notify(p.wake)
}

// Cancel drops the pending save for name, e.g. after the document is deleted.
func (p *Persist) Cancel(name string) {
	p.mu.Lock()
	delete(p.pending, name)
	p.mu.Unlock()
}

func (p *Persist) Wake() <-chan struct{} {
	return p.wake
}

// Pending lists the names waiting to be saved.
func (p *Persist) Pending() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.pending))
	for name := range p.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Persist) due(now time.Time) bool {
	if len(p.pending) == 0 {
		return false
	}
	if now.Sub(p.lastFlush) < p.cfg.Throttle {
		return false
	}
	return p.activity.Idle(now) >= p.cfg.Quiet
}

// Drain flushes pending saves if the throttle interval has passed and typing
// has paused. It reports whether a flush ran. Failures are logged, handed to
// OnError, and kept pending for the next flush.
func (p *Persist) Drain(ctx context.Context) bool {
	p.mu.Lock()
	due := p.due(p.clock.Now())
	p.mu.Unlock()
	if !due {
		return false
	}
	failed := p.flush(ctx)
	for _, f := range failed {
		logging.Errorf("persist: %s: %v", f.name, f.err)
		if p.OnError != nil {
			p.OnError(f.name, f.err)
		}
	}
	return true
}

// Flush writes every pending save now, regardless of timing. Failed saves
// stay pending and their errors are returned.
func (p *Persist) Flush(ctx context.Context) error {
	failed := p.flush(ctx)
	errs := make([]error, 0, len(failed))
	for _, f := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.name, f.err))
	}
	return errors.Join(errs...)
}

// Save runs save for name now, in place of any pending save for name.
func (p *Persist) Save(ctx context.Context, name string, save Save) error {
	p.flushMu.Lock()
	defer p.flushMu.Unlock()
	p.Cancel(name)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := save(p.sink); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

type failure struct {
	name string
	err  error
}

func (p *Persist) flush(ctx context.Context) []failure {
	p.flushMu.Lock()
	defer p.flushMu.Unlock()

	p.mu.Lock()
	batch := p.pending
	p.pending = make(map[string]Save)
	p.mu.Unlock()

	names := make([]string, 0, len(batch))
	for name := range batch {
		names = append(names, name)
	}
	sort.Strings(names)

	var failed []failure
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			// Put back everything not yet attempted.
			for _, rest := range names[i:] {
				p.requeue(rest, batch[rest])
			}
			failed = append(failed, failure{name: name, err: err})
			break
		}
		if err := batch[name](p.sink); err != nil {
			p.requeue(name, batch[name])
			failed = append(failed, failure{name: name, err: err})
			continue
		}
		logging.Debugf("persist: saved %s", name)
	}

	p.mu.Lock()
	p.lastFlush = p.clock.Now()
	p.mu.Unlock()
	return failed
}

// requeue restores a failed save unless a newer one was requested meanwhile.
func (p *Persist) requeue(name string, save Save) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, newer := p.pending[name]; newer {
		return
	}
	p.pending[name] = save
}
