package document

import "testing"

func TestInsertAdvancesCursor(t *testing.T) {
	d := New("")
	d.InsertString("hi")
	if d.Text() != "hi" || d.Cursor() != 2 {
		t.Fatalf("expected %q at 2, got %q at %d", "hi", d.Text(), d.Cursor())
	}
	if !d.Dirty() {
		t.Fatal("expected document to be dirty after insert")
	}
}

func TestInsertInMiddle(t *testing.T) {
	d := New("hllo")
	d.SetCursor(1)
	d.Insert('e')
	if d.Text() != "hello" || d.Cursor() != 2 {
		t.Fatalf("got %q at %d", d.Text(), d.Cursor())
	}
}

func TestInsertThenBackspaceRestores(t *testing.T) {
	for _, tt := range []struct {
		text   string
		cursor int
	}{
		{"", 0},
		{"abc", 0},
		{"abc", 2},
		{"abc", 3},
		{"line\nnext", 5},
	} {
		d := New(tt.text)
		d.SetCursor(tt.cursor)
		d.Insert('Z')
		d.Backspace()
		if d.Text() != tt.text || d.Cursor() != tt.cursor {
			t.Errorf("%q@%d: got %q@%d", tt.text, tt.cursor, d.Text(), d.Cursor())
		}
	}
}

func TestBackspaceAtStartIsNoop(t *testing.T) {
	d := New("abc")
	d.SetCursor(0)
	d.MarkClean()
	if d.Backspace() {
		t.Fatal("expected no change at cursor 0")
	}
	if d.Text() != "abc" || d.Dirty() {
		t.Fatalf("buffer changed: %q dirty=%v", d.Text(), d.Dirty())
	}
}

func TestDeleteWord(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		cursor     int
		want       string
		wantCursor int
	}{
		{name: "last word", text: "hello world", cursor: 11, want: "hello ", wantCursor: 6},
		{name: "trailing spaces", text: "hello world   ", cursor: 14, want: "hello ", wantCursor: 6},
		{name: "single word", text: "hello", cursor: 5, want: "", wantCursor: 0},
		{name: "stops at newline", text: "one\ntwo", cursor: 7, want: "one\n", wantCursor: 4},
		{name: "after newline", text: "one\n", cursor: 4, want: "one\n", wantCursor: 4},
		{name: "mid word", text: "hello world", cursor: 8, want: "hello rld", wantCursor: 6},
		{name: "at start", text: "abc", cursor: 0, want: "abc", wantCursor: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(tt.text)
			d.SetCursor(tt.cursor)
			d.DeleteWord()
			if d.Text() != tt.want || d.Cursor() != tt.wantCursor {
				t.Fatalf("expected %q@%d, got %q@%d", tt.want, tt.wantCursor, d.Text(), d.Cursor())
			}
		})
	}
}

func TestSetCursorClamps(t *testing.T) {
	d := New("abc")
	d.SetCursor(10)
	if d.Cursor() != 3 {
		t.Errorf("expected 3, got %d", d.Cursor())
	}
	d.SetCursor(-1)
	if d.Cursor() != 0 {
		t.Errorf("expected 0, got %d", d.Cursor())
	}
}

func TestMoveLeftRight(t *testing.T) {
	d := New("ab")
	if d.MoveRight() {
		t.Fatal("expected no move past the end")
	}
	d.MoveLeft()
	d.MoveLeft()
	if d.MoveLeft() {
		t.Fatal("expected no move before the start")
	}
	if d.Cursor() != 0 {
		t.Fatalf("expected cursor 0, got %d", d.Cursor())
	}
}

func TestResetClearsDirty(t *testing.T) {
	d := New("")
	d.Insert('x')
	d.Reset("fresh")
	if d.Dirty() || d.Text() != "fresh" || d.Cursor() != 5 {
		t.Fatalf("unexpected state after reset: %q@%d dirty=%v", d.Text(), d.Cursor(), d.Dirty())
	}
}
