package app

import (
	"context"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/document"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/store"
)

func (c *Controller) handleEditorKey(ctx context.Context, ev key.Event) {
	if ev.Ctrl() {
		c.handleEditorChord(ctx, ev)
		return
	}

	switch ev.Key.Kind {
	case key.KindChar:
		if r, ok := ev.Glyph(); ok {
			c.edit(func(d *document.Document) bool { d.Insert(r); return true })
		}
	case key.KindSpace:
		c.edit(func(d *document.Document) bool { d.Insert(' '); return true })
	case key.KindEnter:
		if ev.Shift() {
			c.breakPage(ctx)
			return
		}
		c.edit(func(d *document.Document) bool { d.Insert('\n'); return true })
	case key.KindBackspace:
		if ev.Alt() {
			c.edit((*document.Document).DeleteWord)
			return
		}
		c.edit((*document.Document).Backspace)
	case key.KindLeft:
		c.moveCursor((*document.Document).MoveLeft)
	case key.KindRight:
		c.moveCursor((*document.Document).MoveRight)
	case key.KindEsc:
		c.showMenu(ctx)
	case key.KindPgUp, key.KindPgDn:
		c.enterPaged(ctx, ev.Key.Kind)
	case key.KindNone, key.KindDelete, key.KindTab, key.KindUp, key.KindDown, key.KindHome,
		key.KindShift, key.KindCtrl, key.KindAlt, key.KindFn, key.KindCaps, key.KindWin:
	}
}

func (c *Controller) handleEditorChord(ctx context.Context, ev key.Event) {
	if ev.Key.Kind != key.KindChar {
		return
	}
	switch ev.Key.Rune {
	case 's':
		c.saveNow(ctx)
	case 'o':
		c.showMenu(ctx)
	case 'n':
		c.newNote(ctx)
	case 'r':
		c.startRename(ctx)
	case 'd':
		c.deleteOpen(ctx)
	}
}

// edit applies fn to the open document. When fn reports a change, a
// debounced refresh and a batched save are requested.
func (c *Controller) edit(fn func(*document.Document) bool) {
	c.ed.mu.Lock()
	if c.ed.doc == nil {
		c.ed.mu.Unlock()
		return
	}
	changed := fn(c.ed.doc)
	name := c.ed.name
	c.ed.mu.Unlock()
	if !changed {
		return
	}
	c.render.Request(display.RefreshPartial)
	c.queueSave(name)
}

func (c *Controller) moveCursor(fn func(*document.Document) bool) {
	c.ed.mu.Lock()
	moved := c.ed.doc != nil && fn(c.ed.doc)
	c.ed.mu.Unlock()
	if !moved {
		return
	}
	c.render.Request(display.RefreshPartial)
	c.queueCursor()
}

func (c *Controller) saveNow(ctx context.Context) {
	c.ed.mu.Lock()
	name := c.ed.name
	c.ed.mu.Unlock()
	c.queueSave(name)
	if err := c.persist.Flush(ctx); err != nil {
		logging.Errorf("save %s: %v", name, err)
		c.setStatus("Save failed")
		return
	}
	c.setStatus("Saved")
}

// breakPage writes the open page, inserts an empty page after it and moves
// the editor onto the new page.
func (c *Controller) breakPage(ctx context.Context) {
	c.ed.mu.Lock()
	name, page := c.ed.name, c.ed.page
	c.ed.mu.Unlock()

	err := c.persist.Save(ctx, name, func(s store.Sink) error {
		c.ed.mu.Lock()
		text := c.ed.doc.Text()
		c.ed.mu.Unlock()
		return document.BreakPage(s, name, page, text)
	})
	if err != nil {
		logging.Errorf("page break %s: %v", name, err)
		c.queueSave(name)
		c.setStatus("Save failed")
		return
	}

	c.ed.mu.Lock()
	c.ed.page = page + 1
	c.ed.doc.Clear()
	c.ed.mu.Unlock()
	logging.Debugf("page break %s -> page %d", name, page+2)
	c.queueCursor()
	c.render.RequestNow(display.RefreshFull)
}

func (c *Controller) deleteOpen(ctx context.Context) {
	c.ed.mu.Lock()
	name := c.ed.name
	c.ed.mu.Unlock()
	if err := c.remove(ctx, name); err != nil {
		logging.Errorf("delete %s: %v", name, err)
		c.setStatus("Delete failed")
		return
	}
	c.showMenu(ctx)
	c.setStatus("Deleted " + name)
}
