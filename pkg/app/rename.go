package app

import (
	"context"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/store"
)

const renamePrompt = "Rename: "

func (c *Controller) startRename(ctx context.Context) {
	if err := c.flush(ctx); err != nil {
		logging.Errorf("rename: %v", err)
		c.setStatus("Save failed")
		return
	}
	c.ed.mu.Lock()
	c.rename = []rune(c.ed.name)
	c.ed.mu.Unlock()
	c.status = ""
	c.setMode(ModeRename)
	c.render.RequestNow(display.RefreshPartial)
}

func (c *Controller) handleRenameKey(ctx context.Context, ev key.Event) {
	switch ev.Key.Kind {
	case key.KindChar:
		if ev.Ctrl() || ev.Alt() {
			return
		}
		if r, ok := ev.Glyph(); ok {
			c.rename = append(c.rename, r)
			c.render.Request(display.RefreshPartial)
		}
	case key.KindSpace:
		c.rename = append(c.rename, ' ')
		c.render.Request(display.RefreshPartial)
	case key.KindBackspace:
		if len(c.rename) > 0 {
			c.rename = c.rename[:len(c.rename)-1]
			c.render.Request(display.RefreshPartial)
		}
	case key.KindEnter:
		c.commitRename(ctx)
	case key.KindEsc:
		c.rename = nil
		c.setMode(ModeEditor)
		c.setStatus("Rename cancelled")
	case key.KindNone, key.KindDelete, key.KindTab, key.KindUp, key.KindDown, key.KindLeft, key.KindRight,
		key.KindPgUp, key.KindPgDn, key.KindHome,
		key.KindShift, key.KindCtrl, key.KindAlt, key.KindFn, key.KindCaps, key.KindWin:
	}
}

func (c *Controller) commitRename(ctx context.Context) {
	c.ed.mu.Lock()
	old := c.ed.name
	c.ed.mu.Unlock()
	want := string(c.rename)
	c.rename = nil
	c.setMode(ModeEditor)

	var name string
	err := c.persist.Save(ctx, old, func(store.Sink) error {
		var err error
		name, err = c.svc.Rename(old, want)
		return err
	})
	if err != nil {
		logging.Errorf("rename %s to %q: %v", old, want, err)
		c.setStatus("Rename failed")
		return
	}

	c.ed.mu.Lock()
	c.ed.name = name
	c.ed.mu.Unlock()
	c.queueCursor()
	logging.Infof("renamed %s to %s", old, name)
	c.setStatus("Renamed to " + name)
}
