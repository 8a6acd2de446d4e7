package app

import (
	"context"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/logging"
)

const (
	menuMaxRows = 10
	menuHint    = "[Enter] Open | [N] New | [Del] Delete | [Esc] Quit"
)

// menuRows is how many file names fit above the footer.
func (c *Controller) menuRows() int {
	n := (c.cfg.Height - 45) / 15
	if n > menuMaxRows {
		n = menuMaxRows
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (c *Controller) handleMenuKey(ctx context.Context, ev key.Event) {
	switch ev.Key.Kind {
	case key.KindUp, key.KindPgUp:
		c.moveSelection(-1)
	case key.KindDown, key.KindPgDn:
		c.moveSelection(1)
	case key.KindEnter:
		if len(c.menu.Files) == 0 {
			return
		}
		_ = c.open(ctx, c.menu.Files[c.menu.Selected])
	case key.KindChar:
		if ev.Key.Rune == 'n' && (ev.Mods == 0 || ev.Ctrl() || ev.Shift()) {
			c.newNote(ctx)
		}
	case key.KindBackspace, key.KindDelete:
		c.deleteSelected(ctx)
	case key.KindEsc:
		c.quit(ctx)
	case key.KindNone, key.KindSpace, key.KindTab, key.KindLeft, key.KindRight, key.KindHome,
		key.KindShift, key.KindCtrl, key.KindAlt, key.KindFn, key.KindCaps, key.KindWin:
	}
}

func (c *Controller) moveSelection(delta int) {
	if len(c.menu.Files) == 0 {
		return
	}
	next := c.menu.Selected + delta
	if next < 0 || next >= len(c.menu.Files) {
		return
	}
	c.menu.Selected = next
	c.clampMenu()
	c.render.Request(display.RefreshPartial)
}

// clampMenu keeps the selection valid and inside the visible window.
func (c *Controller) clampMenu() {
	n := len(c.menu.Files)
	if c.menu.Selected >= n {
		c.menu.Selected = n - 1
	}
	if c.menu.Selected < 0 {
		c.menu.Selected = 0
	}
	rows := c.menuRows()
	if c.menu.Selected < c.menu.Top {
		c.menu.Top = c.menu.Selected
	}
	if c.menu.Selected >= c.menu.Top+rows {
		c.menu.Top = c.menu.Selected - rows + 1
	}
	if c.menu.Top > 0 && c.menu.Top+rows > n {
		c.menu.Top = max(0, n-rows)
	}
}

func (c *Controller) deleteSelected(ctx context.Context) {
	if len(c.menu.Files) == 0 {
		return
	}
	name := c.menu.Files[c.menu.Selected]
	if err := c.remove(ctx, name); err != nil {
		logging.Errorf("delete %s: %v", name, err)
		c.setStatus("Delete failed")
		return
	}
	c.reloadFiles()
	c.setStatus("Deleted " + name)
	c.render.RequestNow(display.RefreshPartial)
}

// quit saves and signals the executor to stop.
func (c *Controller) quit(ctx context.Context) {
	if err := c.flush(ctx); err != nil {
		logging.Errorf("quit: %v", err)
		c.setStatus("Save failed")
		return
	}
	logging.Infof("quit from menu")
	c.stop()
}
