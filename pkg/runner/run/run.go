// Package run starts the device in the terminal simulator.
package run

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/executor"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/power"
	"tableflip.dev/inkpad/pkg/schedule"
	"tableflip.dev/inkpad/pkg/sim"
	"tableflip.dev/inkpad/pkg/store"
)

var ErrNoTerminal = errors.New("run: the simulator needs a terminal")

// Run drives the simulator until the device powers off.
type Run struct {
	Settings    *store.Settings
	Persistence store.Persistence
}

func (r *Run) Do(ctx context.Context) error {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNoTerminal
	}

	closer, err := logging.Setup(r.Settings.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	logging.DebugEnabled = r.Settings.Debug
	logging.Infof("inkpad starting, store %s", r.Settings.Path)

	panel := sim.NewPanel(r.Settings.SimPartial, r.Settings.SimFull)
	keys := key.NewChannel(64)
	dev, err := Assemble(r.Settings, r.Persistence, panel, keys)
	if err != nil {
		return err
	}
	err = sim.Run(ctx, panel, sim.NewKeyboard(keys), sim.DetectPalette(), dev.Run)
	if err != nil {
		logging.Errorf("inkpad stopped: %v", err)
	} else {
		logging.Infof("inkpad powered off")
	}
	return err
}

// Assemble wires the device around a panel, a keyboard and a store.
func Assemble(s *store.Settings, p store.Persistence, sink display.Sink, src key.Source) (*executor.Preemptive, error) {
	if p == nil {
		return nil, errors.New("run: no persistence")
	}
	activity := &schedule.Activity{}
	bus := display.NewBus(sink)
	persist := schedule.NewPersist(p, activity, schedule.System, schedule.PersistConfig{
		Throttle: s.Flush,
		Quiet:    s.Quiet,
	})

	monitor := power.New(activity, power.Config{
		Screensaver: s.Screensaver,
		Sleep:       s.Sleep,
	})

	var ctrl *app.Controller
	render := schedule.NewRender(bus, func() *display.Frame { return ctrl.Frame() }, activity, schedule.System, schedule.RenderConfig{
		MinInterval: s.MinRefresh,
		Quiet:       s.Quiet,
	})
	ctrl = app.New(app.Config{
		Width:         s.Width,
		Height:        s.Height,
		StatusTimeout: s.Status,
	}, app.Deps{
		Service: &app.Service{Persistence: p, Ext: s.Extension},
		Render:  render,
		Persist: persist,
		Power:   monitor,
	})
	persist.OnError = ctrl.SaveFailed

	dev, err := executor.New(executor.Deps{
		Source:     src,
		Controller: ctrl,
		Render:     render,
		Persist:    persist,
		Monitor:    monitor,
		Bus:        bus,
		Activity:   activity,
		Watcher:    p,
	}, executor.Config{FnHold: s.FnHold})
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return dev, nil
}
