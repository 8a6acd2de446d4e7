package sim

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"

	"tableflip.dev/inkpad/pkg/display"
	"tableflip.dev/inkpad/pkg/layout"
)

// StoppedMsg tells the model the device has shut down.
type StoppedMsg struct{ Err error }

// Palette is the paper and ink colours. Without Color the panel is drawn in
// the terminal's own colours and ghosting is not shown.
type Palette struct {
	Paper  string
	Ink    string
	Border string
	Color  bool
}

// DetectPalette picks paper colours that read well on the current terminal.
func DetectPalette() Palette {
	if termenv.EnvColorProfile() == termenv.Ascii {
		return Palette{}
	}
	if termenv.HasDarkBackground() {
		return Palette{Paper: "#d8d4c8", Ink: "#1c1c1c", Border: "#5f5f5f", Color: true}
	}
	return Palette{Paper: "#f4f1e8", Ink: "#101010", Border: "#a8a8a8", Color: true}
}

type keyMap struct {
	Quit key.Binding
	Fn   key.Binding
}

var defaultKeys = keyMap{
	Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "power off")),
	Fn:   key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "hold/release Fn")),
}

// ghostStep is how much of the previous image survives each partial refresh.
const (
	ghostStep = 0.12
	ghostMax  = 0.5
)

// Model draws the most recent refresh the way the panel would show it:
// partial refreshes leave a faint ghost of the previous image until the next
// full refresh.
type Model struct {
	keys    *Keyboard
	keymap  keyMap
	palette Palette
	stop    func()

	frame    *display.Frame
	ghost    *display.Frame
	kind     display.RefreshKind
	partials int
	count    int
	busy     bool

	stopping bool
	err      error
	width    int
}

// New builds the model. stop is called on Ctrl+C to shut the device down.
func New(keys *Keyboard, palette Palette, stop func()) Model {
	return Model{keys: keys, keymap: defaultKeys, palette: palette, stop: stop}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			if m.stopping {
				return m, tea.Quit
			}
			m.stopping = true
			if m.stop != nil {
				m.stop()
			}
		case key.Matches(msg, m.keymap.Fn):
			m.keys.ToggleFn()
		default:
			m.keys.Press(msg)
		}
	case busyMsg:
		m.busy = true
	case refreshMsg:
		m.apply(msg)
	case StoppedMsg:
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(r refreshMsg) {
	m.busy = false
	m.count++
	m.kind = r.kind
	if r.kind == display.RefreshPartial {
		m.ghost = m.frame
		m.partials++
	} else {
		m.ghost = nil
		m.partials = 0
	}
	m.frame = r.frame
}

// Frame is the frame currently on the simulated panel.
func (m Model) Frame() *display.Frame {
	return m.frame
}

// Err is the error the device stopped with.
func (m Model) Err() error {
	return m.err
}

func (m Model) ghostStrength() float64 {
	return min(ghostMax, ghostStep*float64(m.partials))
}

func (m Model) View() string {
	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if m.palette.Color {
		border = border.BorderForeground(lipgloss.Color(m.palette.Border))
	}

	body := "waiting for the first refresh"
	if m.frame != nil {
		body = strings.Join(m.rows(), "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, border.Render(body), m.statusLine())
}

func (m Model) statusLine() string {
	parts := []string{fmt.Sprintf("%d refreshes", m.count)}
	if m.count > 0 {
		parts = append(parts, "last "+m.kind.String())
	}
	if m.busy {
		parts = append(parts, "busy")
	}
	if m.keys != nil && m.keys.FnHeld() {
		parts = append(parts, "Fn held")
	}
	if m.stopping {
		parts = append(parts, "powering off")
	}
	for _, b := range []key.Binding{m.keymap.Quit, m.keymap.Fn} {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	line := strings.Join(parts, " | ")
	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(m.width), "…")
	}
	return line
}

type cell int

const (
	cellPaper cell = iota
	cellGhost
	cellInk
	cellCursor
)

// rows renders the frame one text row per line, grouping runs of cells
// that share a style.
func (m Model) rows() []string {
	grid := m.frame.Grid()
	var ghost []string
	if m.ghost != nil && m.ghostStrength() > 0 {
		ghost = m.ghost.Grid()
	}
	cursor := m.cursorCells()
	styles := m.styles()

	out := make([]string, len(grid))
	for r, row := range grid {
		runes := []rune(row)
		var ghostRow []rune
		if r < len(ghost) {
			ghostRow = []rune(ghost[r])
		}
		var b strings.Builder
		var run []rune
		cur := cellPaper
		flush := func() {
			if len(run) > 0 {
				b.WriteString(styles[cur].Render(string(run)))
				run = run[:0]
			}
		}
		for c, ch := range runes {
			kind := cellPaper
			switch {
			case cursor[[2]int{r, c}]:
				kind = cellCursor
			case ch != ' ':
				kind = cellInk
			case c < len(ghostRow) && ghostRow[c] != ' ':
				kind, ch = cellGhost, ghostRow[c]
			}
			if kind != cur {
				flush()
				cur = kind
			}
			run = append(run, ch)
		}
		flush()
		out[r] = b.String()
	}
	return out
}

// cursorCells finds the cells whose underline bar is filled.
func (m Model) cursorCells() map[[2]int]bool {
	cells := make(map[[2]int]bool)
	for _, rect := range m.frame.Rects {
		if rect.Dy() > layout.CharHeight/2 {
			continue
		}
		c := (rect.Min.X - layout.MarginLeft) / layout.CharWidth
		r := (rect.Min.Y - layout.MarginTop) / layout.CharHeight
		cells[[2]int{r, c}] = true
	}
	return cells
}

func (m Model) styles() map[cell]lipgloss.Style {
	base := lipgloss.NewStyle()
	if !m.palette.Color {
		return map[cell]lipgloss.Style{
			cellPaper:  base,
			cellGhost:  base,
			cellInk:    base,
			cellCursor: base.Underline(true),
		}
	}
	paper := base.Background(lipgloss.Color(m.palette.Paper))
	ink := paper.Foreground(lipgloss.Color(m.palette.Ink))
	return map[cell]lipgloss.Style{
		cellPaper:  paper,
		cellGhost:  paper.Foreground(lipgloss.Color(m.ghostColor())),
		cellInk:    ink,
		cellCursor: ink.Underline(true),
	}
}

// ghostColor blends ink into paper by the ghost strength.
func (m Model) ghostColor() string {
	paper, err := colorful.Hex(m.palette.Paper)
	if err != nil {
		return m.palette.Paper
	}
	ink, err := colorful.Hex(m.palette.Ink)
	if err != nil {
		return m.palette.Paper
	}
	return paper.BlendLab(ink, m.ghostStrength()).Hex()
}

// Run shows the panel in the terminal while device runs. Ctrl+C cancels the
// device's context; the program exits once device returns.
func Run(ctx context.Context, panel *Panel, keys *Keyboard, palette Palette, device func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(keys, palette, cancel), tea.WithAltScreen())
	panel.Attach(p.Send)

	done := make(chan error, 1)
	go func() {
		err := device(ctx)
		done <- err
		p.Send(StoppedMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return fmt.Errorf("sim: %w", err)
	}
	cancel()
	return <-done
}
