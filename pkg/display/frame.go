package display

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tableflip.dev/inkpad/pkg/layout"
)

// Frame is one screenful: characters at pixel positions plus filled
// rectangles, on a white background.
type Frame struct {
	Width, Height int
	Glyphs        []layout.Glyph
	Rects         []image.Rectangle
}

func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height}
}

// Text places s starting at (x, y), one cell per rune.
func (f *Frame) Text(x, y int, s string) {
	for _, r := range s {
		f.Glyphs = append(f.Glyphs, layout.Glyph{X: x, Y: y, Ch: r})
		x += layout.CharWidth
	}
}

// Row places s on text row n, counted from the top margin.
func (f *Frame) Row(n int, s string) {
	f.Text(layout.MarginLeft, layout.MarginTop+n*layout.CharHeight, s)
}

// Place appends already positioned glyphs.
func (f *Frame) Place(glyphs []layout.Glyph) {
	f.Glyphs = append(f.Glyphs, glyphs...)
}

func (f *Frame) Fill(r image.Rectangle) {
	f.Rects = append(f.Rects, r)
}

// Grid renders the frame as text, one string per character row. Glyphs are
// snapped to the cell grid anchored at the margins; rectangles are ignored.
func (f *Frame) Grid() []string {
	cols := (f.Width - layout.MarginLeft) / layout.CharWidth
	rows := (f.Height - layout.MarginTop) / layout.CharHeight
	if cols < 1 || rows < 1 {
		return nil
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	for _, g := range f.Glyphs {
		c := (g.X - layout.MarginLeft) / layout.CharWidth
		r := (g.Y - layout.MarginTop) / layout.CharHeight
		if r >= 0 && r < rows && c >= 0 && c < cols {
			grid[r][c] = g.Ch
		}
	}
	out := make([]string, rows)
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}

// Contains reports whether any character row holds s.
func (f *Frame) Contains(s string) bool {
	for _, row := range f.Grid() {
		if strings.Contains(row, s) {
			return true
		}
	}
	return false
}

// baseline offsets a glyph's cell top to the font baseline.
const baseline = 12

// Image rasterizes the frame to a grayscale bitmap the size of the panel.
func (f *Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, r := range f.Rects {
		draw.Draw(img, r.Intersect(img.Bounds()), image.Black, image.Point{}, draw.Src)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for _, g := range f.Glyphs {
		if g.Ch == ' ' {
			continue
		}
		d.Dot = fixed.P(g.X, g.Y+baseline)
		d.DrawString(string(g.Ch))
	}
	return img
}
