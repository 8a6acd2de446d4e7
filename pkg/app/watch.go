package app

import (
	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/store"
)

// HandleStore reacts to changes made to storage outside the editor.
func (c *Controller) HandleStore(ev store.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case store.EventListingInvalidated:
		c.reloadFiles()
		if c.mode == ModeMenu {
			c.render.Request(display.RefreshPartial)
		}
	case store.EventDocumentChanged:
		c.reloadChanged(ev.Name)
	}
}

// reloadChanged reloads the open page when name is the open document and it
// has no unsaved edits. Our own saves read back identical and are ignored.
func (c *Controller) reloadChanged(name string) {
	c.ed.mu.Lock()
	open := c.ed.doc != nil && c.ed.name == name && !c.ed.doc.Dirty()
	c.ed.mu.Unlock()
	if !open {
		return
	}

	pages, err := c.svc.Pages(name)
	if err != nil {
		logging.Warnf("reload %s: %v", name, err)
		return
	}

	c.ed.mu.Lock()
	defer c.ed.mu.Unlock()
	if c.ed.doc == nil || c.ed.name != name || c.ed.doc.Dirty() {
		return
	}
	if c.ed.page >= len(pages) {
		c.ed.page = len(pages) - 1
	}
	text := pages[c.ed.page]
	if text == c.ed.doc.Text() {
		return
	}
	cursor := c.ed.doc.Cursor()
	c.ed.doc.Reset(text)
	c.ed.doc.SetCursor(cursor)
	logging.Infof("reloaded %s after an external change", name)
	if c.mode == ModeEditor {
		c.render.Request(display.RefreshFull)
	}
}
