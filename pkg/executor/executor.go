// Package executor runs the device: it samples keys, dispatches them to the
// controller and performs refreshes and saves without holding up input.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/power"
	"tableflip.dev/inkpad/pkg/schedule"
	"tableflip.dev/inkpad/pkg/store"
)

// Executor runs the device until the user quits or ctx is done.
type Executor interface {
	Run(ctx context.Context) error
}

var ErrNoInput = errors.New("executor: no key input source")

type Config struct {
	// FnHold is how long Fn must be held to shut down.
	FnHold time.Duration
	// Poll is how often idle timers are checked.
	Poll time.Duration
	// InputBuffer is the number of raw key events queued ahead of dispatch.
	InputBuffer int
}

type Deps struct {
	Source     key.Source
	Controller *app.Controller
	Render     *schedule.Render
	Persist    *schedule.Persist
	Monitor    *power.Monitor
	Bus        *display.Bus
	Activity   *schedule.Activity
	Clock      schedule.Clock
	// Watcher reports storage changes made outside the editor. Optional.
	Watcher interface {
		Watch(ctx context.Context) (<-chan store.Event, error)
	}
	// Sleeper suspends the device once it has gone to sleep. Defaults to
	// the Monitor, which blocks until the next key.
	Sleeper power.Sleeper
}

// Preemptive runs key sampling, dispatch and refresh/save work on separate
// goroutines. A slow panel refresh or storage write never delays sampling,
// and delays dispatch only while it holds the state a key would change.
type Preemptive struct {
	cfg Config
	Deps
}

var _ Executor = (*Preemptive)(nil)

func New(deps Deps, cfg Config) (*Preemptive, error) {
	if deps.Source == nil {
		return nil, ErrNoInput
	}
	if deps.Clock == nil {
		deps.Clock = schedule.System
	}
	if deps.Sleeper == nil {
		deps.Sleeper = deps.Monitor
	}
	if cfg.Poll <= 0 {
		cfg.Poll = 20 * time.Millisecond
	}
	if cfg.InputBuffer <= 0 {
		cfg.InputBuffer = 64
	}
	return &Preemptive{cfg: cfg, Deps: deps}, nil
}

func (p *Preemptive) Run(ctx context.Context) error {
	p.Activity.Touch(p.Clock.Now())
	if err := p.Controller.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var watch <-chan store.Event
	if p.Watcher != nil {
		ch, err := p.Watcher.Watch(ctx)
		if err != nil {
			logging.Warnf("storage watch disabled: %v", err)
		} else {
			watch = ch
		}
	}

	events := make(chan key.RawEvent, p.cfg.InputBuffer)
	inputErr := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.sample(ctx, events, inputErr)
	}()
	go func() {
		defer wg.Done()
		p.work(ctx)
	}()

	err := p.dispatch(ctx, events, inputErr, watch)
	cancel()
	wg.Wait()

	return errors.Join(err, p.shutdown())
}

// sample moves raw events from the source into events. When dispatch falls
// behind the oldest queued event is dropped.
func (p *Preemptive) sample(ctx context.Context, events chan key.RawEvent, errs chan<- error) {
	for {
		ev, err := p.Source.Next(ctx)
		if err != nil {
			errs <- err
			return
		}
		select {
		case events <- ev:
			continue
		default:
		}
		logging.Warnf("input queue full, dropping oldest key event (panel busy: %t)", p.Bus.Busy())
		select {
		case <-events:
		default:
		}
		select {
		case events <- ev:
		default:
		}
	}
}

func (p *Preemptive) dispatch(ctx context.Context, events <-chan key.RawEvent, inputErr <-chan error, watch <-chan store.Event) error {
	decoder := key.NewDecoder()
	ticker := time.NewTicker(p.cfg.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.Controller.Done():
			return nil
		case err := <-inputErr:
			if errors.Is(err, key.ErrSourceClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("executor: key input: %w", err)
		case raw := <-events:
			now := p.Clock.Now()
			p.Activity.Touch(now)
			if raw.Pressed {
				if prev := p.Monitor.Wake(); prev != power.Awake {
					logging.Infof("woke from %s", prev)
					// A release dropped while idle would leave a modifier held.
					decoder.Reset()
					decoder.Feed(raw, now)
					p.Controller.Wake()
					continue
				}
			}
			if ev, ok := decoder.Feed(raw, now); ok {
				p.Controller.Handle(ctx, ev)
			}
		case ev, ok := <-watch:
			if !ok {
				watch = nil
				continue
			}
			p.Controller.HandleStore(ev)
		case <-ticker.C:
			if p.cfg.FnHold > 0 && decoder.FnHeld(p.Clock.Now()) >= p.cfg.FnHold {
				logging.Infof("fn held, shutting down")
				return nil
			}
		}
	}
}

// work runs idle checks, saves and refreshes until ctx is done.
func (p *Preemptive) work(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.Render.Wake():
		case <-p.Persist.Wake():
		}

		now := p.Clock.Now()
		switch p.Monitor.Check(now) {
		case power.Screensaver:
			logging.Infof("idle, showing screensaver")
			if err := p.Controller.Screensaver(ctx); errors.Is(err, app.ErrWoken) {
				logging.Debugf("screensaver cancelled by a key")
			}
		case power.Asleep:
			logging.Infof("idle, going to sleep")
			if err := p.Controller.Sleep(ctx); errors.Is(err, app.ErrWoken) {
				logging.Debugf("sleep cancelled by a key")
				break
			}
			if err := p.Bus.Show(ctx, p.Controller.Frame(), display.RefreshClear); err != nil {
				logging.Errorf("sleep: %v", err)
			}
			if err := p.Sleeper.Sleep(ctx); err != nil {
				return
			}
			continue
		}

		p.Controller.Tick(now)
		p.Persist.Drain(ctx)
		p.Render.Drain(ctx)
	}
}

// shutdown saves everything and leaves the splash on the panel.
func (p *Preemptive) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := p.Controller.Shutdown(ctx)
	if err != nil {
		logging.Errorf("shutdown: %v", err)
	}
	if serr := p.Bus.Show(ctx, p.Controller.Frame(), display.RefreshFull); serr != nil {
		logging.Errorf("shutdown: %v", serr)
	}
	logging.Infof("shut down")
	return err
}
