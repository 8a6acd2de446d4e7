package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestPersistenceReadWrite(t *testing.T) {
	p, err := Load(Dir(t.TempDir()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.Write("a.txt", "hello"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := p.Read("a.txt")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestPersistenceReadSeesOutOfBandWrites(t *testing.T) {
	base := t.TempDir()
	p, err := Load(Dir(base))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_ = p.Write("a.txt", "one")
	if _, err := p.Read("a.txt"); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, "a.txt"), []byte("two"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if got, _ := p.Read("a.txt"); got != "two" {
		t.Fatalf("expected fresh content, got %q", got)
	}
}

func TestPersistenceNotFound(t *testing.T) {
	p, err := Load(Dir(t.TempDir()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := p.Read("missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("read: expected ErrNotFound, got %v", err)
	}
	if err := p.Remove("missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove: expected ErrNotFound, got %v", err)
	}
	if err := p.Rename("missing.txt", "other.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename: expected ErrNotFound, got %v", err)
	}
}

func TestPersistenceListNewestFirst(t *testing.T) {
	base := t.TempDir()
	p, err := Load(Dir(base))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_ = p.Write("old.txt", "a")
	_ = p.Write("new.txt", "b")
	_ = p.Write("skip.md", "c")
	_ = p.Write(".cursor", "d")
	_ = p.Write("sub/nested.txt", "e")

	now := time.Now()
	_ = os.Chtimes(filepath.Join(base, "old.txt"), now.Add(-time.Hour), now.Add(-time.Hour))
	_ = os.Chtimes(filepath.Join(base, "new.txt"), now, now)

	names, err := p.List("", ".txt")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if want := []string{"new.txt", "old.txt"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}

	nested, err := p.List("sub", ".txt")
	if err != nil {
		t.Fatalf("list sub: %v", err)
	}
	if want := []string{"sub/nested.txt"}; !reflect.DeepEqual(nested, want) {
		t.Fatalf("expected %v, got %v", want, nested)
	}
}

func TestPersistenceRemoveAndRename(t *testing.T) {
	p, err := Load(Dir(t.TempDir()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_ = p.Write("a.txt", "alpha")
	_ = p.Write("b.txt", "beta")

	if err := p.Rename("a.txt", "b.txt"); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := p.Rename("a.txt", "c.txt"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got, _ := p.Read("c.txt"); got != "alpha" {
		t.Fatalf("renamed content %q", got)
	}
	if _, err := p.Read("a.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old name still readable: %v", err)
	}
	if err := p.Remove("c.txt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	names, _ := p.List("", ".txt")
	if want := []string{"b.txt"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{
		"a.txt":       true,
		"dir/a.txt":   true,
		"":            false,
		"/abs.txt":    false,
		"../up.txt":   false,
		"a//b.txt":    false,
		"win\\a.txt":  false,
		"dir/./a.txt": false,
	} {
		if got := ValidName(name); got != want {
			t.Errorf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestMemoryListOrder(t *testing.T) {
	m := NewMemory()
	_ = m.Write("first.txt", "")
	_ = m.Write("second.txt", "")
	_ = m.Write("first.txt", "again")
	names, _ := m.List("", ".txt")
	if want := []string{"first.txt", "second.txt"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}
