package app

import (
	"context"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/power"
)

// Screensaver saves everything and shows the splash with a full refresh.
// It returns ErrWoken when a key has already woken the device.
func (c *Controller) Screensaver(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stillIdle(power.Screensaver) {
		return ErrWoken
	}
	err := c.flush(ctx)
	if err != nil {
		logging.Errorf("screensaver: %v", err)
	}
	c.power = power.Screensaver
	c.render.RequestNow(display.RefreshFull)
	return err
}

// Sleep saves everything and blanks the frame. The caller clears the panel
// and suspends unless it gets ErrWoken.
func (c *Controller) Sleep(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stillIdle(power.Asleep) {
		return ErrWoken
	}
	err := c.flush(ctx)
	if err != nil {
		logging.Errorf("sleep: %v", err)
	}
	c.power = power.Asleep
	return err
}

// Wake brings back the active mode's screen with a full refresh.
func (c *Controller) Wake() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.halted {
		return
	}
	c.power = power.Awake
	c.render.RequestNow(display.RefreshFull)
}

// stillIdle reports whether the device is still in s. Wake runs under c.mu
// after the monitor is woken, so checking here orders the two.
func (c *Controller) stillIdle(s power.State) bool {
	return c.idle == nil || c.idle.State() == s
}
