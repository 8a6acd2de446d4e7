package cat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/inkpad/pkg/app"
	"tableflip.dev/inkpad/pkg/store"
)

func newCat(t *testing.T, content string) (*Cat, *bytes.Buffer) {
	t.Helper()
	mem := store.NewMemory()
	if err := mem.Write("story.txt", content); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	return &Cat{
		Service: &app.Service{Persistence: mem, Ext: ".txt"},
		Name:    "story",
		Width:   400,
		Height:  300,
		Out:     &buf,
	}, &buf
}

func TestCatWholeFileAndPage(t *testing.T) {
	c, buf := newCat(t, "one\n---\ntwo")
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if buf.String() != "one\n---\ntwo\n" {
		t.Errorf("whole file = %q", buf.String())
	}

	buf.Reset()
	c.Page = 2
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if buf.String() != "two\n" {
		t.Errorf("page 2 = %q", buf.String())
	}

	c.Page = 3
	if err := c.Do(context.Background()); err == nil {
		t.Error("expected an error for a missing page")
	}
}

func TestCatWrapSplitsSubpages(t *testing.T) {
	c, buf := newCat(t, strings.Repeat("line\n", 30))
	c.Wrap = true
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "-- 1.1/1 --") || !strings.Contains(out, "-- 1.2/1 --") {
		t.Fatalf("expected two subpages:\n%s", out)
	}
}

func TestCatMissingDocument(t *testing.T) {
	c, _ := newCat(t, "x")
	c.Name = "nope"
	if err := c.Do(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatClipboard(t *testing.T) {
	var copied string
	orig := copyText
	copyText = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyText = orig })

	c, buf := newCat(t, "hello")
	c.Clipboard = true
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if copied != "hello" {
		t.Errorf("copied %q", copied)
	}
	if !strings.Contains(buf.String(), "copied 5 characters") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
