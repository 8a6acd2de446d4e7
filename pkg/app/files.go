package app

import (
	"context"
	"errors"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/document"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/schedule"
	"tableflip.dev/inkpad/pkg/store"
)

// open flushes the current document and loads name into the editor. On
// failure the editor is left untouched.
func (c *Controller) open(ctx context.Context, name string) error {
	if err := c.flush(ctx); err != nil {
		logging.Errorf("open %s: %v", name, err)
		c.setStatus("Save failed")
		return err
	}
	pages, err := c.svc.Pages(name)
	if err != nil {
		logging.Errorf("open %s: %v", name, err)
		c.setStatus("Open failed")
		return err
	}

	page, cursor := len(pages)-1, -1
	if pos, ok := c.svc.Position(); ok && pos.Name == name && pos.Page < len(pages) {
		page, cursor = pos.Page, pos.Cursor
	}
	doc := document.New(pages[page])
	if cursor >= 0 {
		doc.SetCursor(cursor)
	}

	c.ed.mu.Lock()
	c.ed.name = name
	c.ed.page = page
	c.ed.doc = doc
	c.ed.mu.Unlock()

	logging.Infof("opened %s page %d", name, page+1)
	c.setMode(ModeEditor)
	c.render.RequestNow(display.RefreshFull)
	return nil
}

// close forgets the open document without saving it.
func (c *Controller) close() {
	c.ed.mu.Lock()
	name := c.ed.name
	c.ed.name = ""
	c.ed.page = 0
	c.ed.doc = nil
	c.ed.mu.Unlock()
	if name != "" {
		c.persist.Cancel(name)
	}
}

// flush queues the open document if it has unsaved edits and writes every
// pending save.
func (c *Controller) flush(ctx context.Context) error {
	c.ed.mu.Lock()
	name, dirty := c.ed.name, c.ed.doc != nil && c.ed.doc.Dirty()
	c.ed.mu.Unlock()
	if dirty {
		c.queueSave(name)
	}
	return c.persist.Flush(ctx)
}

// queueSave schedules the open page and the cursor sidecar.
func (c *Controller) queueSave(name string) {
	c.persist.Request(name, c.pageSave(name))
	c.queueCursor()
}

func (c *Controller) queueCursor() {
	c.persist.Request(CursorFile, c.cursorSave())
}

// pageSave writes the open page of name as it is when the save runs. The
// document is marked clean only if nothing changed while it was written.
func (c *Controller) pageSave(name string) schedule.Save {
	return func(s store.Sink) error {
		c.ed.mu.Lock()
		if c.ed.doc == nil || c.ed.name != name {
			c.ed.mu.Unlock()
			return nil
		}
		page, text := c.ed.page, c.ed.doc.Text()
		c.ed.mu.Unlock()

		if err := document.SaveCurrentPage(s, name, page, text); err != nil {
			return err
		}

		c.ed.mu.Lock()
		if c.ed.doc != nil && c.ed.name == name && c.ed.page == page && c.ed.doc.Text() == text {
			c.ed.doc.MarkClean()
		}
		c.ed.mu.Unlock()
		return nil
	}
}

func (c *Controller) cursorSave() schedule.Save {
	return func(s store.Sink) error {
		pos, ok := c.position()
		if !ok {
			return nil
		}
		return s.Write(CursorFile, pos.String())
	}
}

func (c *Controller) position() (Position, bool) {
	c.ed.mu.Lock()
	defer c.ed.mu.Unlock()
	if c.ed.doc == nil {
		return Position{}, false
	}
	text, cursor := c.ed.doc.Text(), c.ed.doc.Cursor()
	_, _, sub := c.editorGeometry().Cursor(text, cursor)
	return Position{Name: c.ed.name, Cursor: cursor, Page: c.ed.page, Subpage: sub}, true
}

func (c *Controller) newNote(ctx context.Context) {
	if err := c.flush(ctx); err != nil {
		logging.Errorf("new note: %v", err)
		c.setStatus("Save failed")
		return
	}
	name, err := c.svc.Create(c.clock.Now())
	if err != nil {
		logging.Errorf("new note: %v", err)
		c.setStatus("Create failed")
		return
	}
	logging.Infof("created %s", name)
	c.reloadFiles()
	if err := c.open(ctx, name); err == nil {
		c.setStatus("New: " + name)
	}
}

// remove deletes name, closing it when it is the open document. It runs
// through the saver so an in-flight save cannot recreate the file.
func (c *Controller) remove(ctx context.Context, name string) error {
	err := c.persist.Save(ctx, name, func(store.Sink) error {
		if err := c.svc.Delete(name); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.ed.mu.Lock()
	open := c.ed.name == name
	c.ed.mu.Unlock()
	if open {
		c.close()
	}
	logging.Infof("deleted %s", name)
	return nil
}

// showMenu saves, re-reads the listing and switches to the menu with the
// open document selected.
func (c *Controller) showMenu(ctx context.Context) {
	if err := c.flush(ctx); err != nil {
		logging.Errorf("menu: %v", err)
		c.setStatus("Save failed")
	}
	c.reloadFiles()
	c.ed.mu.Lock()
	name := c.ed.name
	c.ed.mu.Unlock()
	for i, f := range c.menu.Files {
		if f == name {
			c.menu.Selected = i
		}
	}
	c.clampMenu()
	c.setMode(ModeMenu)
	c.render.RequestNow(display.RefreshPartial)
}

func (c *Controller) reloadFiles() {
	files, err := c.svc.Documents()
	if err != nil {
		logging.Errorf("list documents: %v", err)
		c.setStatus("List failed")
		return
	}
	selected := ""
	if c.menu.Selected < len(c.menu.Files) {
		selected = c.menu.Files[c.menu.Selected]
	}
	c.menu.Files = files
	for i, f := range files {
		if f == selected {
			c.menu.Selected = i
		}
	}
	c.clampMenu()
}

// SaveFailed shows a background save failure on the status line.
func (c *Controller) SaveFailed(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStatus("Save failed")
}
