package app

import (
	"fmt"
	"image"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/layout"
	"tableflip.dev/inkpad/pkg/power"
)

const (
	splashText  = "inkpad"
	pagedFooter = "[PgUp/PgDn] Navigate | [Home] Exit"
)

// Frame composes what the panel should show right now.
func (c *Controller) Frame() *display.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := display.NewFrame(c.cfg.Width, c.cfg.Height)
	switch c.power {
	case power.Screensaver:
		Splash(f)
		return f
	case power.Asleep:
		return f
	}

	switch c.mode {
	case ModeMenu:
		c.drawMenu(f)
	case ModeEditor:
		c.drawEditor(f)
	case ModePaged:
		c.drawPaged(f)
	case ModeRename:
		c.drawEditor(f)
		c.drawRename(f)
	}
	return f
}

// Splash centres the device name on f.
func Splash(f *display.Frame) {
	x := (f.Width - len(splashText)*layout.CharWidth) / 2
	y := (f.Height - layout.CharHeight) / 2
	f.Text(x, y, splashText)
}

func (c *Controller) drawMenu(f *display.Frame) {
	rows := c.menuRows()
	for i := 0; i < rows && c.menu.Top+i < len(c.menu.Files); i++ {
		idx := c.menu.Top + i
		prefix := "  "
		if idx == c.menu.Selected {
			prefix = "> "
		}
		f.Row(i, prefix+c.menu.Files[idx])
	}

	selected := 0
	if len(c.menu.Files) > 0 {
		selected = c.menu.Selected + 1
	}
	f.Row(c.rows()-2, fmt.Sprintf("Files %d/%d", selected, len(c.menu.Files)))
	if c.status != "" {
		f.Row(c.rows()-1, c.status)
	} else {
		f.Row(c.rows()-1, menuHint)
	}
}

func (c *Controller) drawEditor(f *display.Frame) {
	c.ed.mu.Lock()
	if c.ed.doc == nil {
		c.ed.mu.Unlock()
		return
	}
	text, cursor := c.ed.doc.Text(), c.ed.doc.Cursor()
	c.ed.mu.Unlock()

	g := c.editorGeometry()
	pages := g.Paginate(text)
	x, y, page := g.Cursor(text, cursor)
	if page >= len(pages) {
		page = len(pages) - 1
	}
	f.Place(pages[page].Glyphs())
	f.Fill(image.Rect(x, y+layout.CharHeight-2, x+layout.CharWidth, y+layout.CharHeight))

	if c.status != "" {
		f.Row(c.rows()-1, c.status)
	}
}

func (c *Controller) drawPaged(f *display.Frame) {
	DrawPaged(f, c.view, c.status)
}

// PagedGeometry is the text area of the pager on a width x height panel. Two
// rows are kept for the status line and footer.
func PagedGeometry(width, height int) layout.Geometry {
	return layout.Geometry{Width: width, Height: height}.Shrink(2)
}

// DrawPaged draws subpage v.Subpage of page v.Page with the pager footer.
func DrawPaged(f *display.Frame, v View, status string) {
	if v.Page < 0 || v.Page >= len(v.Pages) {
		return
	}
	rows := layout.LinesPerPage(f.Height)
	pages := PagedGeometry(f.Width, f.Height).Paginate(v.Pages[v.Page])
	sub := max(0, min(v.Subpage, len(pages)-1))
	f.Place(pages[sub].Glyphs())

	label := fmt.Sprintf("%d/%d", v.Page+1, len(v.Pages))
	if len(pages) > 1 {
		label = fmt.Sprintf("%d.%d/%d", v.Page+1, sub+1, len(v.Pages))
	}
	if status != "" {
		f.Row(rows-2, status)
	}
	f.Row(rows-1, pagedFooter)
	footerY := layout.MarginTop + (rows-1)*layout.CharHeight
	f.Text(f.Width-len(label)*layout.CharWidth-10, footerY, label)
}

func (c *Controller) drawRename(f *display.Frame) {
	f.Row(c.rows()-1, renamePrompt+string(c.rename)+"_")
}
