package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INKPAD_CONFIG_PATH", t.TempDir())
	cmd := New()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCommandTree(t *testing.T) {
	cmd := New()
	for _, name := range []string{"run", "ls", "cat", "snapshot", "key", "info", "version", "completion"} {
		if c, _, err := cmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestCatThroughDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "letter.txt"), []byte("dear\n---\nsincerely"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--path", dir, "cat", "letter", "--page", "2")
	if err != nil {
		t.Fatalf("cat: %v\n%s", err, out)
	}
	if out != "sincerely\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestKeyCommand(t *testing.T) {
	out, err := execute(t, "key")
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	if !strings.Contains(out, "Shift+Enter") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCatNeedsName(t *testing.T) {
	if _, err := execute(t, "--path", t.TempDir(), "cat"); err == nil {
		t.Fatal("expected an argument error")
	}
}
