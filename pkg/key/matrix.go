package key

import "sort"

// Pos is a row/column position in the keyboard matrix.
type Pos struct {
	Row, Col int
}

// RawEvent is what the keyboard controller reports.
type RawEvent struct {
	Pos     Pos
	Pressed bool
}

// layout is the 10x8 matrix of the TCA8418 controller, row by row. Row 7 is
// not wired.
var layout = []struct {
	pos   Pos
	label string
}{
	{Pos{0, 1}, "Esc"}, {Pos{0, 2}, "1"}, {Pos{0, 3}, "2"}, {Pos{0, 4}, "3"}, {Pos{0, 5}, "4"},
	{Pos{0, 6}, "5"}, {Pos{0, 7}, "6"}, {Pos{0, 8}, "7"}, {Pos{0, 9}, "8"}, {Pos{1, 0}, "9"},

	{Pos{1, 1}, "0"}, {Pos{1, 2}, "-"}, {Pos{1, 3}, "="}, {Pos{1, 4}, "Backspace"}, {Pos{1, 5}, "Home"},
	{Pos{1, 6}, "Tab"}, {Pos{1, 7}, "Q"}, {Pos{1, 8}, "W"}, {Pos{1, 9}, "E"}, {Pos{2, 0}, "R"},

	{Pos{2, 1}, "T"}, {Pos{2, 2}, "Y"}, {Pos{2, 3}, "U"}, {Pos{2, 4}, "I"}, {Pos{2, 5}, "O"},
	{Pos{2, 6}, "P"}, {Pos{2, 7}, "["}, {Pos{2, 8}, "]"}, {Pos{2, 9}, "\\"}, {Pos{3, 0}, "Del"},

	{Pos{3, 1}, "Caps"}, {Pos{3, 2}, "A"}, {Pos{3, 3}, "S"}, {Pos{3, 4}, "D"}, {Pos{3, 5}, "F"},
	{Pos{3, 6}, "G"}, {Pos{3, 7}, "H"}, {Pos{3, 8}, "J"}, {Pos{3, 9}, "K"}, {Pos{4, 0}, "L"},

	{Pos{4, 1}, ";"}, {Pos{4, 2}, "'"}, {Pos{4, 3}, "Enter"}, {Pos{4, 4}, "PgUp"}, {Pos{4, 5}, "Shift"},
	{Pos{4, 6}, "Z"}, {Pos{4, 7}, "X"}, {Pos{4, 8}, "C"}, {Pos{4, 9}, "V"}, {Pos{5, 0}, "B"},

	{Pos{5, 1}, "N"}, {Pos{5, 2}, "M"}, {Pos{5, 3}, ","}, {Pos{5, 4}, "."}, {Pos{5, 5}, "/"},
	{Pos{5, 6}, "Shift"}, {Pos{5, 7}, "Up"}, {Pos{5, 8}, "PgDn"}, {Pos{5, 9}, "Alt"}, {Pos{6, 0}, "Win"},

	{Pos{6, 1}, "Ctrl"}, {Pos{6, 2}, "Space"}, {Pos{6, 3}, "Alt"}, {Pos{6, 4}, "Fn"}, {Pos{6, 5}, "Ctrl"},
	{Pos{6, 6}, "Left"}, {Pos{6, 7}, "Down"}, {Pos{6, 8}, "Right"},
}

var (
	matrix  = make(map[Pos]Key, len(layout))
	reverse = make(map[Key]Pos, len(layout))
)

func init() {
	for _, e := range layout {
		k, ok := Parse(e.label)
		if !ok {
			panic("key: bad matrix label " + e.label)
		}
		matrix[e.pos] = k
		if _, dup := reverse[k]; !dup {
			reverse[k] = e.pos
		}
	}
}

// Lookup maps a matrix position to its key.
func Lookup(p Pos) (Key, bool) {
	k, ok := matrix[p]
	return k, ok
}

// PositionOf returns the first matrix position producing k.
func PositionOf(k Key) (Pos, bool) {
	p, ok := reverse[k]
	return p, ok
}

// Entry is one matrix position and its key.
type Entry struct {
	Pos Pos
	Key Key
}

// Layout returns the matrix ordered by row then column.
func Layout() []Entry {
	out := make([]Entry, 0, len(matrix))
	for p, k := range matrix {
		out = append(out, Entry{Pos: p, Key: k})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Row != out[j].Pos.Row {
			return out[i].Pos.Row < out[j].Pos.Row
		}
		return out[i].Pos.Col < out[j].Pos.Col
	})
	return out
}
