// Package app holds the device state and the mode controller that turns
// decoded key events into document edits, saves and refreshes.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/document"
	"tableflip.dev/inkpad/pkg/key"
	"tableflip.dev/inkpad/pkg/layout"
	"tableflip.dev/inkpad/pkg/logging"
	"tableflip.dev/inkpad/pkg/power"
	"tableflip.dev/inkpad/pkg/schedule"
)

type Mode int

const (
	ModeMenu Mode = iota
	ModeEditor
	ModePaged
	ModeRename
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeEditor:
		return "editor"
	case ModePaged:
		return "paged"
	case ModeRename:
		return "rename"
	}
	return "unknown"
}

// Refresher accepts panel refresh requests.
type Refresher interface {
	Request(kind display.RefreshKind)
	RequestNow(kind display.RefreshKind)
}

// Saver accepts document saves.
type Saver interface {
	Request(name string, save schedule.Save)
	Cancel(name string)
	Flush(ctx context.Context) error
	Save(ctx context.Context, name string, save schedule.Save) error
}

// PowerState reports which idle step the device is in.
type PowerState interface {
	State() power.State
}

type Config struct {
	Width  int
	Height int
	// StatusTimeout is how long a status message stays on screen.
	StatusTimeout time.Duration
}

type Deps struct {
	Service *Service
	Render  Refresher
	Persist Saver
	Clock   schedule.Clock
	// Power gates the screensaver and sleep steps. A key that wakes the
	// device between the idle check and the step cancels it.
	Power PowerState
}

// Menu is the file picker state.
type Menu struct {
	Files    []string
	Selected int
	// Top is the first file shown in the window.
	Top int
}

// View is the read-only pager position.
type View struct {
	Pages   []string
	Page    int
	Subpage int
}

// editing is the open document. It has its own lock so saves can read it
// while a key handler holds the controller lock.
type editing struct {
	mu   sync.Mutex
	name string
	page int
	doc  *document.Document
}

// Controller is the device's mode state machine. Handle, HandleStore, Tick
// and the power methods may be called from different goroutines.
type Controller struct {
	cfg     Config
	svc     *Service
	render  Refresher
	persist Saver
	clock   schedule.Clock
	idle    PowerState

	mu          sync.Mutex
	mode        Mode
	menu        Menu
	view        View
	rename      []rune
	status      string
	statusUntil time.Time
	power       power.State
	halted      bool
	done        chan struct{}

	ed editing
}

func New(cfg Config, deps Deps) *Controller {
	clock := deps.Clock
	if clock == nil {
		clock = schedule.System
	}
	return &Controller{
		cfg:     cfg,
		svc:     deps.Service,
		render:  deps.Render,
		persist: deps.Persist,
		clock:   clock,
		idle:    deps.Power,
		done:    make(chan struct{}),
	}
}

// Start shows the menu, or creates and opens a note when there are no
// documents yet.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	files, err := c.svc.Documents()
	if err != nil {
		return fmt.Errorf("app: list documents: %w", err)
	}
	if len(files) == 0 {
		name, err := c.svc.Create(c.clock.Now())
		if err != nil {
			return fmt.Errorf("app: create note: %w", err)
		}
		logging.Infof("created %s", name)
		return c.open(ctx, name)
	}
	c.menu = Menu{Files: files}
	c.setMode(ModeMenu)
	c.render.RequestNow(display.RefreshFull)
	return nil
}

// Done is closed when the user quits from the menu.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Handle routes one decoded key event to the active mode.
func (c *Controller) Handle(ctx context.Context, ev key.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.halted {
		return
	}
	logging.Debugf("key %s in %s", ev, c.mode)

	switch c.mode {
	case ModeMenu:
		c.handleMenuKey(ctx, ev)
	case ModeEditor:
		c.handleEditorKey(ctx, ev)
	case ModePaged:
		c.handlePagedKey(ctx, ev)
	case ModeRename:
		c.handleRenameKey(ctx, ev)
	}
}

// Tick expires the status message.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != "" && !now.Before(c.statusUntil) {
		c.status = ""
		c.render.Request(display.RefreshPartial)
	}
}

// Flush writes the open document and any other pending saves now.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flush(ctx)
}

// Shutdown saves everything and stops handling keys. The caller shows the
// final frame.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.flush(ctx)
	c.halted = true
	c.power = power.Screensaver
	c.stop()
	return err
}

func (c *Controller) stop() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) Menu() Menu {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.menu
	m.Files = append([]string(nil), c.menu.Files...)
	return m
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.Pages = append([]string(nil), c.view.Pages...)
	return v
}

// Editing returns the open document name, page index, text and cursor.
func (c *Controller) Editing() (name string, page int, text string, cursor int) {
	c.ed.mu.Lock()
	defer c.ed.mu.Unlock()
	if c.ed.doc == nil {
		return c.ed.name, c.ed.page, "", 0
	}
	return c.ed.name, c.ed.page, c.ed.doc.Text(), c.ed.doc.Cursor()
}

func (c *Controller) setMode(m Mode) {
	if c.mode != m {
		logging.Debugf("mode %s -> %s", c.mode, m)
	}
	c.mode = m
}

func (c *Controller) setStatus(msg string) {
	c.status = msg
	c.statusUntil = c.clock.Now().Add(c.cfg.StatusTimeout)
	c.render.Request(display.RefreshPartial)
}

func (c *Controller) panel() layout.Geometry {
	return layout.Geometry{Width: c.cfg.Width, Height: c.cfg.Height}
}

// editorGeometry keeps the bottom row for the status line.
func (c *Controller) editorGeometry() layout.Geometry {
	return c.panel().Shrink(1)
}

// pagedGeometry keeps two rows for the status line and footer.
func (c *Controller) pagedGeometry() layout.Geometry {
	return PagedGeometry(c.cfg.Width, c.cfg.Height)
}

// rows is the number of text rows on the panel.
func (c *Controller) rows() int {
	return layout.LinesPerPage(c.cfg.Height)
}
