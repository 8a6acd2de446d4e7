// Package document holds the editable text of one explicit page and the
// helpers that split a stored file into pages and join them back.
package document

// Document is the character buffer and cursor of the page being edited.
// It is not safe for concurrent use; callers guard it.
type Document struct {
	buf    []rune
	cursor int
	dirty  bool
}

// New returns a document holding text with the cursor at its end.
func New(text string) *Document {
	d := &Document{buf: []rune(text)}
	d.cursor = len(d.buf)
	return d
}

// Text returns the buffer contents.
func (d *Document) Text() string {
	return string(d.buf)
}

// Len is the buffer length in runes.
func (d *Document) Len() int {
	return len(d.buf)
}

// Cursor is the rune offset of the insertion point, 0 <= Cursor <= Len.
func (d *Document) Cursor() int {
	return d.cursor
}

// SetCursor moves the insertion point, clamping it to the buffer.
func (d *Document) SetCursor(c int) {
	switch {
	case c < 0:
		c = 0
	case c > len(d.buf):
		c = len(d.buf)
	}
	d.cursor = c
}

// Dirty reports whether the buffer changed since the last MarkClean.
func (d *Document) Dirty() bool {
	return d.dirty
}

func (d *Document) MarkDirty() {
	d.dirty = true
}

func (d *Document) MarkClean() {
	d.dirty = false
}

// Insert places ch at the cursor and advances it.
func (d *Document) Insert(ch rune) {
	d.buf = append(d.buf, 0)
	copy(d.buf[d.cursor+1:], d.buf[d.cursor:])
	d.buf[d.cursor] = ch
	d.cursor++
	d.dirty = true
}

// InsertString inserts s at the cursor one rune at a time.
func (d *Document) InsertString(s string) {
	for _, r := range s {
		d.Insert(r)
	}
}

// Backspace removes the rune before the cursor. It reports false at the start
// of the buffer, where nothing changes.
func (d *Document) Backspace() bool {
	if d.cursor == 0 {
		return false
	}
	d.buf = append(d.buf[:d.cursor-1], d.buf[d.cursor:]...)
	d.cursor--
	d.dirty = true
	return true
}

// DeleteWord removes the word before the cursor along with any spaces between
// it and the cursor. A newline stops the scan, so directly after a newline
// nothing is removed.
func (d *Document) DeleteWord() bool {
	if d.cursor == 0 {
		return false
	}
	i := d.cursor - 1
	for i >= 0 && d.buf[i] == ' ' {
		i--
	}
	for i >= 0 && d.buf[i] != ' ' && d.buf[i] != '\n' {
		i--
	}
	start := i + 1
	if start == d.cursor {
		return false
	}
	d.buf = append(d.buf[:start], d.buf[d.cursor:]...)
	d.cursor = start
	d.dirty = true
	return true
}

// MoveLeft and MoveRight step the cursor by one rune.
func (d *Document) MoveLeft() bool {
	if d.cursor == 0 {
		return false
	}
	d.cursor--
	return true
}

func (d *Document) MoveRight() bool {
	if d.cursor >= len(d.buf) {
		return false
	}
	d.cursor++
	return true
}

// Reset replaces the buffer with text, moves the cursor to its end and marks
// the document clean.
func (d *Document) Reset(text string) {
	d.buf = []rune(text)
	d.cursor = len(d.buf)
	d.dirty = false
}

// Clear empties the buffer.
func (d *Document) Clear() {
	d.Reset("")
}
