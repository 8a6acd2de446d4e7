package app

import (
	"context"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/document"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/logging"
)

// enterPaged saves the open page, loads every page of the document and
// applies the first move.
func (c *Controller) enterPaged(ctx context.Context, move key.Kind) {
	if err := c.flush(ctx); err != nil {
		logging.Errorf("paged view: %v", err)
		c.setStatus("Save failed")
	}

	c.ed.mu.Lock()
	name, page := c.ed.name, c.ed.page
	text, cursor := c.ed.doc.Text(), c.ed.doc.Cursor()
	c.ed.mu.Unlock()

	pages, err := c.svc.Pages(name)
	if err != nil {
		logging.Errorf("paged view %s: %v", name, err)
		c.setStatus("Open failed")
		return
	}
	for len(pages) <= page {
		pages = append(pages, "")
	}
	// The editor's copy wins if the save above did not land.
	pages[page] = text

	_, _, sub := c.pagedGeometry().Cursor(text, cursor)
	c.view = View{Pages: pages, Page: page, Subpage: sub}
	c.clampView()
	c.setMode(ModePaged)
	c.movePaged(move)
}

func (c *Controller) handlePagedKey(ctx context.Context, ev key.Event) {
	switch ev.Key.Kind {
	case key.KindPgUp, key.KindPgDn:
		c.movePaged(ev.Key.Kind)
	case key.KindHome:
		c.leavePaged(ctx)
	case key.KindNone, key.KindChar, key.KindSpace, key.KindEnter, key.KindBackspace, key.KindDelete,
		key.KindTab, key.KindEsc, key.KindUp, key.KindDown, key.KindLeft, key.KindRight,
		key.KindShift, key.KindCtrl, key.KindAlt, key.KindFn, key.KindCaps, key.KindWin:
	}
}

func (c *Controller) subpages(page int) int {
	return len(c.pagedGeometry().Paginate(c.view.Pages[page]))
}

// movePaged steps through subpages, crossing into the neighbouring page at
// either end.
func (c *Controller) movePaged(move key.Kind) {
	v := &c.view
	switch move {
	case key.KindPgUp:
		switch {
		case v.Subpage > 0:
			v.Subpage--
		case v.Page > 0:
			v.Page--
			v.Subpage = c.subpages(v.Page) - 1
		default:
			c.setStatus("Already at first page")
			return
		}
	case key.KindPgDn:
		switch {
		case v.Subpage < c.subpages(v.Page)-1:
			v.Subpage++
		case v.Page < len(v.Pages)-1:
			v.Page++
			v.Subpage = 0
		default:
			c.setStatus("Already at last page")
			return
		}
	default:
		return
	}
	c.status = ""
	c.render.RequestNow(display.RefreshFull)
}

func (c *Controller) clampView() {
	v := &c.view
	if v.Page >= len(v.Pages) {
		v.Page = len(v.Pages) - 1
	}
	if n := c.subpages(v.Page); v.Subpage >= n {
		v.Subpage = n - 1
	}
	if v.Subpage < 0 {
		v.Subpage = 0
	}
}

// leavePaged returns to the editor, loading the viewed page when it is not
// the one being edited.
func (c *Controller) leavePaged(ctx context.Context) {
	c.ed.mu.Lock()
	name, page := c.ed.name, c.ed.page
	dirty := c.ed.doc.Dirty()
	c.ed.mu.Unlock()

	if c.view.Page != page {
		if dirty {
			// The save on entry failed; keep trying before the text is replaced.
			if err := c.persist.Save(ctx, name, c.pageSave(name)); err != nil {
				logging.Errorf("paged view %s: %v", name, err)
				c.setStatus("Save failed")
				return
			}
		}
		c.ed.mu.Lock()
		c.ed.page = c.view.Page
		c.ed.doc = document.New(c.view.Pages[c.view.Page])
		c.ed.mu.Unlock()
	}
	c.queueCursor()
	c.setMode(ModeEditor)
	c.setStatus("Resumed editing")
	c.render.RequestNow(display.RefreshFull)
}
