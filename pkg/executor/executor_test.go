package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/power"
	"tableflip.dev/inkpad/pkg/schedule"
	"tableflip.dev/inkpad/pkg/store"
)

type device struct {
	exec *Preemptive
	src  *key.Channel
	rec  *display.Recorder
	mem  *store.Memory
}

func newDevice(t *testing.T, src key.Source, pcfg power.Config, fnHold time.Duration) *device {
	t.Helper()
	mem := store.NewMemory()
	if err := mem.Write("a.txt", ""); err != nil {
		t.Fatal(err)
	}
	activity := &schedule.Activity{}
	rec := &display.Recorder{}
	bus := display.NewBus(rec)
	persist := schedule.NewPersist(mem, activity, schedule.System, schedule.PersistConfig{
		Throttle: 20 * time.Millisecond,
		Quiet:    10 * time.Millisecond,
	})
	monitor := power.New(activity, pcfg)
	var ctrl *app.Controller
	render := schedule.NewRender(bus, func() *display.Frame { return ctrl.Frame() }, activity, schedule.System, schedule.RenderConfig{
		MinInterval: time.Millisecond,
		Quiet:       10 * time.Millisecond,
	})
	ctrl = app.New(app.Config{Width: 400, Height: 300, StatusTimeout: time.Second}, app.Deps{
		Service: &app.Service{Persistence: mem, Ext: ".txt"},
		Render:  render,
		Persist: persist,
		Power:   monitor,
	})
	persist.OnError = ctrl.SaveFailed

	exec, err := New(Deps{
		Source:     src,
		Controller: ctrl,
		Render:     render,
		Persist:    persist,
		Monitor:    monitor,
		Bus:        bus,
		Activity:   activity,
		Watcher:    mem,
	}, Config{FnHold: fnHold, Poll: 2 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d := &device{exec: exec, rec: rec, mem: mem}
	if ch, ok := src.(*key.Channel); ok {
		d.src = ch
	}
	return d
}

func (d *device) start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- d.exec.Run(ctx) }()
	return done
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func (d *device) shown(s string) bool {
	shot, ok := d.rec.Last()
	return ok && shot.Frame != nil && shot.Frame.Contains(s)
}

func TestTypingRefreshesAndSaves(t *testing.T) {
	d := newDevice(t, key.NewChannel(64), power.Config{}, 0)
	done := d.start(context.Background())

	waitFor(t, "menu", func() bool { return d.shown("> a.txt") })
	d.src.Tap(key.Named(key.KindEnter), 0)
	d.src.Tap(key.Char('h'), key.ModShift)
	d.src.Tap(key.Char('i'), 0)

	waitFor(t, "typed text on the panel", func() bool { return d.shown("Hi") })
	waitFor(t, "saved text", func() bool {
		s, err := d.mem.Read("a.txt")
		return err == nil && s == "Hi"
	})

	d.src.Tap(key.Named(key.KindEsc), 0)
	waitFor(t, "menu after escape", func() bool { return d.shown("Files 1/1") })
	d.src.Tap(key.Named(key.KindEsc), 0)

	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
	shot, _ := d.rec.Last()
	if shot.Kind != display.RefreshFull || !shot.Frame.Contains("inkpad") {
		t.Fatalf("expected splash on a full refresh at shutdown, got %v %q", shot.Kind, shot.Frame.Grid())
	}
}

func TestFnHoldShutsDown(t *testing.T) {
	d := newDevice(t, key.NewChannel(64), power.Config{}, 30*time.Millisecond)
	done := d.start(context.Background())

	pos, ok := key.PositionOf(key.Named(key.KindFn))
	if !ok {
		t.Fatal("no Fn key in the matrix")
	}
	d.src.Push(key.RawEvent{Pos: pos, Pressed: true})

	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !d.shown("inkpad") {
		t.Fatal("expected splash after shutdown")
	}
}

type failingSource struct{ err error }

func (f failingSource) Next(context.Context) (key.RawEvent, error) {
	return key.RawEvent{}, f.err
}

func TestInputErrorStopsRun(t *testing.T) {
	boom := errors.New("i2c nack")
	d := newDevice(t, failingSource{err: boom}, power.Config{}, 0)
	err := waitDone(t, d.start(context.Background()))
	if !errors.Is(err, boom) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := New(Deps{}, Config{}); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestCancelStopsRun(t *testing.T) {
	d := newDevice(t, key.NewChannel(64), power.Config{}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := d.start(ctx)
	waitFor(t, "menu", func() bool { return d.shown("> a.txt") })
	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// splashThenMenu reports whether a menu frame was shown after a splash.
func splashThenMenu(shots []display.Shot) bool {
	splash := -1
	for i, s := range shots {
		if s.Frame == nil {
			continue
		}
		if splash < 0 && s.Frame.Contains("inkpad") {
			splash = i
			continue
		}
		if splash >= 0 && s.Frame.Contains("Files 1/1") {
			return true
		}
	}
	return false
}

func TestScreensaverAndWake(t *testing.T) {
	d := newDevice(t, key.NewChannel(64), power.Config{Screensaver: 100 * time.Millisecond}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := d.start(ctx)

	waitFor(t, "screensaver", func() bool { return d.shown("inkpad") })
	shot, _ := d.rec.Last()
	if shot.Kind != display.RefreshFull {
		t.Fatalf("expected full refresh for the screensaver, got %v", shot.Kind)
	}

	d.src.Tap(key.Named(key.KindDown), 0)
	waitFor(t, "menu after wake", func() bool { return splashThenMenu(d.rec.Shots()) })

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestSleepClearsAndWakes(t *testing.T) {
	d := newDevice(t, key.NewChannel(64), power.Config{Sleep: 150 * time.Millisecond}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := d.start(ctx)

	waitFor(t, "sleep", func() bool {
		shot, ok := d.rec.Last()
		return ok && shot.Kind == display.RefreshClear
	})
	d.src.Tap(key.Named(key.KindDown), 0)
	waitFor(t, "menu after wake", func() bool { return d.shown("Files 1/1") })

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestKeysApplyDuringSlowRefresh(t *testing.T) {
	d := newDevice(t, key.NewChannel(64), power.Config{}, 0)
	d.rec.Delay = 800 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := d.start(ctx)

	waitFor(t, "menu", func() bool { return d.shown("> a.txt") })
	d.src.Tap(key.Named(key.KindEnter), 0)
	waitFor(t, "full refresh of the editor", d.rec.Busy)
	before := len(d.rec.Shots())

	const typed = "xxxxxxxxxxxxxxxxxxxx"
	for range typed {
		d.src.Tap(key.Char('x'), 0)
	}
	waitFor(t, "typed text in the document", func() bool {
		_, _, text, _ := d.exec.Controller.Editing()
		return text == typed
	})
	if got := len(d.rec.Shots()); got != before || !d.rec.Busy() {
		t.Fatalf("keys waited for the refresh: %d shots (had %d), busy %t", got, before, d.rec.Busy())
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestWakeForgetsStaleModifiers(t *testing.T) {
	d := newDevice(t, key.NewChannel(64), power.Config{Screensaver: 100 * time.Millisecond}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := d.start(ctx)

	waitFor(t, "menu", func() bool { return d.shown("> a.txt") })
	d.src.Tap(key.Named(key.KindEnter), 0)

	// Shift goes down and its release never arrives.
	pos, ok := key.PositionOf(key.Named(key.KindShift))
	if !ok {
		t.Fatal("no Shift key in the matrix")
	}
	d.src.Push(key.RawEvent{Pos: pos, Pressed: true})

	waitFor(t, "screensaver", func() bool { return d.shown("inkpad") })
	d.src.Tap(key.Named(key.KindDown), 0)
	d.src.Tap(key.Char('a'), 0)
	waitFor(t, "typed text in the document", func() bool {
		_, _, text, _ := d.exec.Controller.Editing()
		return text != ""
	})
	if _, _, text, _ := d.exec.Controller.Editing(); text != "a" {
		t.Fatalf("expected %q after wake, got %q", "a", text)
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
