package layout

import (
	"math/rand"
	"strings"
	"testing"
)

// widthFor returns a panel width that fits exactly n characters per line.
func widthFor(n int) int {
	return MarginLeft + n*CharWidth
}

func TestWrapScenarios(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		chars   int
		lengths []int
	}{
		{name: "empty", text: "", chars: 40, lengths: nil},
		{name: "single line", text: "Hello World", chars: 20, lengths: []int{11}},
		{name: "hard break", text: strings.Repeat("A", 60), chars: 40, lengths: []int{40, 20}},
		{name: "only newlines", text: "\n\n\n", chars: 40, lengths: []int{0, 0, 0, 0}},
		{name: "trailing newline", text: "Hello\n", chars: 40, lengths: []int{5, 0}},
		{name: "leading newline", text: "\nHello", chars: 40, lengths: []int{0, 5}},
		{name: "blank lines between", text: "A\n\n\nB", chars: 40, lengths: []int{1, 0, 0, 1}},
		{name: "exact fit", text: "abcde", chars: 5, lengths: []int{5}},
		{name: "soft wrap", text: "hello world", chars: 8, lengths: []int{6, 5}},
		{name: "space dropped at edge", text: "abcd efgh", chars: 4, lengths: []int{4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Wrap(tt.text, widthFor(tt.chars))
			if len(lines) != len(tt.lengths) {
				t.Fatalf("expected %d lines, got %d: %q", len(tt.lengths), len(lines), lineStrings(lines))
			}
			for i, want := range tt.lengths {
				if got := len(lines[i]); got != want {
					t.Errorf("line %d: expected %d cells, got %d (%q)", i, want, got, lines[i].String())
				}
			}
		})
	}
}

func TestWrapSoftWrapKeepsWordsWhole(t *testing.T) {
	lines := Wrap("the quick brown fox", widthFor(10))
	got := lineStrings(lines)
	want := []string{"the quick ", "brown fox"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapPlacesFromLeftMargin(t *testing.T) {
	lines := Wrap("ab", widthFor(10))
	if lines[0][0].X != MarginLeft || lines[0][1].X != MarginLeft+CharWidth {
		t.Fatalf("unexpected x offsets: %+v", lines[0])
	}
}

func TestWrapNeverExceedsWidth(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, chars := range []int{1, 3, 10, 40, 49} {
		w := widthFor(chars)
		for i := 0; i < 200; i++ {
			text := randomText(r, 300)
			for n, l := range Wrap(text, w) {
				if l.Width() > w {
					t.Fatalf("width %d: line %d is %d px wide: %q", w, n, l.Width(), l.String())
				}
			}
		}
	}
}

func TestPaginateKeepsCharacters(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		text := randomText(r, 600)
		var got strings.Builder
		for _, p := range Paginate(text, widthFor(12), 5+6*CharHeight) {
			for _, g := range p.Glyphs() {
				got.WriteRune(g.Ch)
			}
		}
		want := strings.ReplaceAll(text, "\n", "")
		if stripSpaces(got.String()) != stripSpaces(want) {
			t.Fatalf("non-space characters differ\nwant %q\ngot  %q", want, got.String())
		}
	}
}

func TestPaginateNoDroppedCharactersWithoutSpaces(t *testing.T) {
	text := "Line\n" + strings.Repeat("x", 120) + "\nend"
	var got strings.Builder
	for _, p := range Paginate(text, widthFor(10), 5+3*CharHeight) {
		for _, g := range p.Glyphs() {
			got.WriteRune(g.Ch)
		}
	}
	if want := strings.ReplaceAll(text, "\n", ""); got.String() != want {
		t.Fatalf("expected %q, got %q", want, got.String())
	}
}

func TestPaginateAlwaysReturnsAPage(t *testing.T) {
	pages := Paginate("", 400, 300)
	if len(pages) != 1 || len(pages[0].Lines) != 0 {
		t.Fatalf("expected one empty page, got %+v", pages)
	}
}

func TestPaginateSplitsAtHeight(t *testing.T) {
	h := 300
	lpp := LinesPerPage(h)
	// lpp+1 newline-terminated lines produce lpp+2 lines including the trailing empty one.
	pages := Paginate(strings.Repeat("Line\n", lpp+1), 400, h)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if len(pages[0].Lines) != lpp {
		t.Errorf("expected %d lines on the first page, got %d", lpp, len(pages[0].Lines))
	}
	for _, g := range pages[0].Glyphs() {
		if g.Y+CharHeight > h {
			t.Fatalf("glyph %q at y=%d overflows height %d", g.Ch, g.Y, h)
		}
	}
}

func TestCursorToScreen(t *testing.T) {
	w, h := 400, 300
	tests := []struct {
		name             string
		text             string
		cursor           int
		wantX, wantY, pg int
	}{
		{name: "empty", text: "", cursor: 0, wantX: MarginLeft, wantY: MarginTop},
		{name: "start", text: "Hello", cursor: 0, wantX: MarginLeft, wantY: MarginTop},
		{name: "end of word", text: "Hello", cursor: 5, wantX: MarginLeft + 5*CharWidth, wantY: MarginTop},
		{name: "after newline", text: "Hello\n", cursor: 6, wantX: MarginLeft, wantY: MarginTop + CharHeight},
		{name: "clamped", text: "Hi", cursor: 99, wantX: MarginLeft + 2*CharWidth, wantY: MarginTop},
		{name: "negative", text: "Hi", cursor: -3, wantX: MarginLeft, wantY: MarginTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, p := CursorToScreen(tt.text, tt.cursor, w, h)
			if x != tt.wantX || y != tt.wantY || p != tt.pg {
				t.Fatalf("expected (%d,%d,%d), got (%d,%d,%d)", tt.wantX, tt.wantY, tt.pg, x, y, p)
			}
		})
	}
}

func TestCursorToScreenSecondPage(t *testing.T) {
	h := 300
	lpp := LinesPerPage(h)
	text := strings.Repeat("Line\n", lpp+2)
	x, y, p := CursorToScreen(text, len(text), 400, h)
	if p != 1 {
		t.Fatalf("expected page 1, got %d", p)
	}
	if x != MarginLeft {
		t.Errorf("expected x at margin, got %d", x)
	}
	if want := MarginTop + 2*CharHeight; y != want {
		t.Errorf("expected y %d, got %d", want, y)
	}
}

func TestCursorToScreenDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		text := randomText(r, 400)
		cursor := r.Intn(len([]rune(text)) + 1)
		x1, y1, p1 := CursorToScreen(text, cursor, 200, 120)
		x2, y2, p2 := CursorToScreen(text, cursor, 200, 120)
		if x1 != x2 || y1 != y2 || p1 != p2 {
			t.Fatalf("non-deterministic cursor for %q at %d", text, cursor)
		}
	}
}

func TestWordBoundaries(t *testing.T) {
	tests := []struct {
		text       string
		start      int
		wantS, wtE int
	}{
		{"hello world", 0, 0, 5},
		{"hello world", 5, 6, 11},
		{"a\nb", 0, 0, 1},
		{"abc", 3, 3, 3},
		{"abc", 10, 10, 10},
		{"   ", 0, 3, 3},
	}
	for _, tt := range tests {
		s, e := WordBoundaries(tt.text, tt.start)
		if s != tt.wantS || e != tt.wtE {
			t.Errorf("WordBoundaries(%q, %d) = (%d,%d), want (%d,%d)", tt.text, tt.start, s, e, tt.wantS, tt.wtE)
		}
	}
}

func TestLinesPerPage(t *testing.T) {
	if got := LinesPerPage(300); got != 19 {
		t.Errorf("expected 19 lines at 300px, got %d", got)
	}
	if got := LinesPerPage(10); got != 1 {
		t.Errorf("expected at least one line, got %d", got)
	}
}

func lineStrings(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func randomText(r *rand.Rand, max int) string {
	const alphabet = "abcdefghij     \n\nXYZ-.,"
	n := r.Intn(max)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[r.Intn(len(alphabet))])
	}
	return b.String()
}
