package display

import (
	"context"
	"sync"
	"time"
)

// Shot is one refresh seen by a Recorder.
type Shot struct {
	Kind  RefreshKind
	Frame *Frame
}

// Recorder is a Sink that keeps every refreshed frame. Delay simulates the
// panel's refresh time.
type Recorder struct {
	mu      sync.Mutex
	pending *Frame
	shots   []Shot
	busy    bool
	fail    error

	Delay time.Duration
}

func (r *Recorder) Render(f *Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.pending = f
	return nil
}

func (r *Recorder) Refresh(ctx context.Context, kind RefreshKind) error {
	r.mu.Lock()
	if r.fail != nil {
		r.mu.Unlock()
		return r.fail
	}
	r.busy = true
	delay := r.Delay
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy = false
	r.shots = append(r.shots, Shot{Kind: kind, Frame: r.pending})
	return nil
}

func (r *Recorder) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Fail makes Render and Refresh return err until cleared with nil.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

// Shots returns a copy of every refresh so far.
func (r *Recorder) Shots() []Shot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Shot(nil), r.shots...)
}

// Last returns the most recent refresh.
func (r *Recorder) Last() (Shot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shots) == 0 {
		return Shot{}, false
	}
	return r.shots[len(r.shots)-1], true
}
