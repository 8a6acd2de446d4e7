package document

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/inkpad/pkg/store"
)

// Marker separates explicit pages in a stored file.
const Marker = "\n---\n"

// Storage is the part of a store.Sink the page helpers need.
type Storage interface {
	Read(name string) (string, error)
	Write(name, content string) error
}

// Split breaks raw file content into pages. Empty or whitespace-only content
// is a single empty page; otherwise Join(Split(raw)) == raw.
func Split(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{""}
	}
	return strings.Split(raw, Marker)
}

// Join is the inverse of Split.
func Join(pages []string) string {
	return strings.Join(pages, Marker)
}

// Load reads name and splits it into pages. A missing file is one empty page.
func Load(s Storage, name string) ([]string, error) {
	raw, err := s.Read(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []string{""}, nil
		}
		return nil, fmt.Errorf("document: load %s: %w", name, err)
	}
	return Split(raw), nil
}

// SaveCurrentPage replaces page index of name with text and writes the file
// back. Other pages are re-read from storage first, so edits made to them
// elsewhere survive.
func SaveCurrentPage(s Storage, name string, index int, text string) error {
	pages, err := Load(s, name)
	if err != nil {
		return err
	}
	pages = grow(pages, index)
	pages[index] = text
	if err := s.Write(name, Join(pages)); err != nil {
		return fmt.Errorf("document: save %s page %d: %w", name, index, err)
	}
	return nil
}

// BreakPage saves text as page index and inserts an empty page after it. The
// new page's index is index+1.
func BreakPage(s Storage, name string, index int, text string) error {
	pages, err := Load(s, name)
	if err != nil {
		return err
	}
	pages = grow(pages, index)
	pages[index] = text
	pages = append(pages[:index+1], append([]string{""}, pages[index+1:]...)...)
	if err := s.Write(name, Join(pages)); err != nil {
		return fmt.Errorf("document: break %s page %d: %w", name, index, err)
	}
	return nil
}

func grow(pages []string, index int) []string {
	for len(pages) <= index {
		pages = append(pages, "")
	}
	return pages
}
