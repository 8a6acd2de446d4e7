// Package key prints the keyboard matrix and the editor chords.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	devkey "tableflip.dev/inkpad/pkg/key"
)

// Chord is one documented key combination.
type Chord struct {
	Keys    string
	Mode    string
	Meaning string
}

// Chords lists what each mode does with its keys.
var Chords = []Chord{
	{"Up / Down / PgUp / PgDn", "menu", "move the selection"},
	{"Enter", "menu", "open the selected file"},
	{"N", "menu", "new note"},
	{"Backspace / Del", "menu", "delete the selected file"},
	{"Esc", "menu", "power off"},
	{"Ctrl+S", "editor", "save now"},
	{"Ctrl+O", "editor", "back to the menu"},
	{"Ctrl+N", "editor", "new note"},
	{"Ctrl+R", "editor", "rename the file"},
	{"Ctrl+D", "editor", "delete the file"},
	{"Shift+Enter", "editor", "page break"},
	{"Alt+Backspace", "editor", "delete the previous word"},
	{"PgUp / PgDn", "editor", "open the pager"},
	{"Esc", "editor", "back to the menu"},
	{"PgUp / PgDn", "pager", "previous / next subpage or page"},
	{"Home", "pager", "resume editing"},
	{"Enter / Esc", "rename", "confirm / cancel"},
	{"Fn (hold)", "any", "power off"},
}

// Key prints the legend.
type Key struct {
	// Out defaults to color.Output.
	Out io.Writer
}

func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintln(out, "")
	k.Matrix(ctx, out)
	_, _ = fmt.Fprintln(out, "")
	k.Chords(ctx, out)
	_, _ = fmt.Fprintln(out, "")
	return nil
}

// Matrix renders the keyboard matrix, one row per matrix row.
func (k *Key) Matrix(_ context.Context, out io.Writer) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{bold.Sprint("Row")}
	for c := 0; c < 10; c++ {
		header = append(header, bold.Sprint(c))
	}
	tbl.AddRow(header...)

	rows := make(map[int][]string)
	for _, e := range devkey.Layout() {
		if rows[e.Pos.Row] == nil {
			rows[e.Pos.Row] = make([]string, 10)
		}
		rows[e.Pos.Row][e.Pos.Col] = e.Key.String()
	}
	for r := 0; r < 8; r++ {
		cells := rows[r]
		if cells == nil {
			continue
		}
		row := []interface{}{r}
		for _, c := range cells {
			row = append(row, c)
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}

// Chords renders the mode key table.
func (k *Key) Chords(_ context.Context, out io.Writer) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Keys"), bold.Sprint("Mode"), bold.Sprint("Meaning"))
	for _, c := range Chords {
		tbl.AddRow(c.Keys, c.Mode, c.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}
