// Package layout word-wraps and paginates text for a fixed-cell e-ink panel.
//
// Every function here is pure: the same text and geometry always produce the
// same lines, pages and cursor position, so callers may recompute freely.
// All offsets are rune offsets.
package layout

import "strings"

const (
	CharWidth  = 8
	CharHeight = 15
	MarginLeft = 5
	MarginTop  = 5
)

// Cell is a character placed at a horizontal pixel offset within a line.
type Cell struct {
	X  int
	Ch rune
}

// Line is one wrapped row.
type Line []Cell

// String returns the characters of the line.
func (l Line) String() string {
	var b strings.Builder
	for _, c := range l {
		b.WriteRune(c.Ch)
	}
	return b.String()
}

// Width is the rendered width of the line in pixels, measured from x=0.
func (l Line) Width() int {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].X + CharWidth
}

// Glyph is a character at an absolute panel position.
type Glyph struct {
	X, Y int
	Ch   rune
}

// Page is a screen-height slice of wrapped lines.
type Page struct {
	Lines []Line
}

// Glyphs places every character of the page on the panel.
func (p Page) Glyphs() []Glyph {
	var out []Glyph
	for i, l := range p.Lines {
		y := MarginTop + i*CharHeight
		for _, c := range l {
			out = append(out, Glyph{X: c.X, Y: y, Ch: c.Ch})
		}
	}
	return out
}

// Geometry is the drawable area handed to the layout functions.
type Geometry struct {
	Width  int
	Height int
}

func (g Geometry) Wrap(text string) []Line {
	return Wrap(text, g.Width)
}

func (g Geometry) Paginate(text string) []Page {
	return Paginate(text, g.Width, g.Height)
}

func (g Geometry) Cursor(text string, cursor int) (x, y, page int) {
	return CursorToScreen(text, cursor, g.Width, g.Height)
}

func (g Geometry) LinesPerPage() int {
	return LinesPerPage(g.Height)
}

// Shrink returns the geometry with n text rows removed from the bottom.
func (g Geometry) Shrink(rows int) Geometry {
	return Geometry{Width: g.Width, Height: g.Height - rows*CharHeight}
}

// LinesPerPage is the number of text rows that fit in maxHeight. It is never
// less than one.
func LinesPerPage(maxHeight int) int {
	n := (maxHeight - MarginTop) / CharHeight
	if n < 1 {
		return 1
	}
	return n
}

// WordBoundaries skips spaces from start, then scans to the next space or
// newline. It returns (start, start) when start is past the end of text.
func WordBoundaries(text string, start int) (int, int) {
	return wordBoundaries([]rune(text), start)
}

func wordBoundaries(text []rune, start int) (int, int) {
	if start >= len(text) {
		return start, start
	}
	for start < len(text) && text[start] == ' ' {
		start++
	}
	end := start
	for end < len(text) && text[end] != ' ' && text[end] != '\n' {
		end++
	}
	return start, end
}

// Wrap breaks text into lines no wider than maxWidth pixels.
//
// Spaces that do not fit are dropped rather than carried to the next line.
// Words that do not fit move to a new line, unless they already start a line
// or are wider than the whole usable width, in which case they are broken
// character by character.
func Wrap(text string, maxWidth int) []Line {
	return wrap([]rune(text), maxWidth)
}

func wrap(text []rune, maxWidth int) []Line {
	var (
		lines []Line
		line  Line
		x     = MarginLeft
	)
	endLine := func() {
		lines = append(lines, line)
		line = nil
		x = MarginLeft
	}
	place := func(ch rune) {
		line = append(line, Cell{X: x, Ch: ch})
		x += CharWidth
	}

	for i := 0; i < len(text); {
		switch ch := text[i]; ch {
		case '\n':
			endLine()
			i++
		case ' ':
			if x+CharWidth <= maxWidth {
				place(ch)
			}
			i++
		default:
			start, end := wordBoundaries(text, i)
			w := (end - start) * CharWidth
			switch {
			case x+w <= maxWidth:
				for _, c := range text[start:end] {
					place(c)
				}
				i = end
			case x == MarginLeft || w > maxWidth-MarginLeft:
				j := start
				for j < end && x+CharWidth <= maxWidth {
					place(text[j])
					j++
				}
				if j == start && x == MarginLeft {
					// Panel narrower than one cell; place anyway so the scan advances.
					place(text[j])
					j++
				}
				if j < end {
					endLine()
				}
				i = j
			default:
				endLine()
			}
		}
	}

	if len(line) > 0 || (len(text) > 0 && text[len(text)-1] == '\n') {
		lines = append(lines, line)
	}
	return lines
}

// Paginate wraps text and groups the lines into pages of at most maxHeight
// pixels. It always returns at least one page.
func Paginate(text string, maxWidth, maxHeight int) []Page {
	return paginate(wrap([]rune(text), maxWidth), maxHeight)
}

func paginate(lines []Line, maxHeight int) []Page {
	var (
		pages []Page
		cur   Page
		y     = MarginTop
	)
	for _, l := range lines {
		if y+CharHeight > maxHeight && len(cur.Lines) > 0 {
			pages = append(pages, cur)
			cur = Page{}
			y = MarginTop
		}
		cur.Lines = append(cur.Lines, l)
		y += CharHeight
	}
	return append(pages, cur)
}

// CursorToScreen maps a cursor offset to the pixel position where the next
// character would be drawn and the page it falls on. The cursor is clamped to
// the text.
func CursorToScreen(text string, cursor, maxWidth, maxHeight int) (x, y, page int) {
	runes := []rune(text)
	if cursor > len(runes) {
		cursor = len(runes)
	}
	if cursor < 0 {
		cursor = 0
	}
	lines := wrap(runes[:cursor], maxWidth)
	if len(lines) == 0 {
		return MarginLeft, MarginTop, 0
	}

	n := len(lines)
	lpp := LinesPerPage(maxHeight)
	last := lines[n-1]

	x = MarginLeft
	if len(last) > 0 {
		x = last[len(last)-1].X + CharWidth
	}
	y = MarginTop + ((n-1)%lpp)*CharHeight
	page = (n - 1) / lpp
	return x, y, page
}
