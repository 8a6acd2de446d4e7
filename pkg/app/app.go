package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/inkpad/pkg/document"
	"tableflip.dev/inkpad/pkg/store"
)

// CursorFile is the sidecar that remembers where editing stopped.
const CursorFile = ".cursor"

// Service provides high-level operations on documents.
// It wraps persistence so the device loop and the CLI share logic.
type Service struct {
	Persistence store.Persistence
	// Ext is the document extension, including the dot.
	Ext string
}

var (
	ErrNoFile        = errors.New("app: no document open")
	ErrWoken         = errors.New("app: woken before the idle step")
	errNoPersistence = errors.New("app: no persistence configured")
)

// Documents lists document names, newest first.
func (s *Service) Documents() ([]string, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.List("", s.Ext)
}

// Create makes an empty note named after now and returns its name.
func (s *Service) Create(now time.Time) (string, error) {
	if s.Persistence == nil {
		return "", errNoPersistence
	}
	base := fmt.Sprintf("note_%d", now.Unix()%100000)
	name := base + s.Ext
	for i := 1; s.exists(name); i++ {
		name = fmt.Sprintf("%s_%d%s", base, i, s.Ext)
	}
	if err := s.Persistence.Write(name, ""); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Service) exists(name string) bool {
	_, err := s.Persistence.Stat(name)
	return err == nil
}

// Delete removes a document, and the cursor sidecar when it points at it.
func (s *Service) Delete(name string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := s.Persistence.Remove(name); err != nil {
		return err
	}
	if pos, ok := s.Position(); ok && pos.Name == name {
		if err := s.Persistence.Remove(CursorFile); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}

// Rename moves a document to newName, adding the extension when it is
// missing, and returns the final name.
func (s *Service) Rename(name, newName string) (string, error) {
	if s.Persistence == nil {
		return "", errNoPersistence
	}
	newName = s.Normalize(newName)
	// Documents live in the root; the menu lists nothing below it.
	if !store.ValidName(newName) || strings.HasPrefix(newName, ".") || strings.ContainsRune(newName, '/') {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidName, newName)
	}
	if newName == name {
		return name, nil
	}
	if err := s.Persistence.Rename(name, newName); err != nil {
		return "", err
	}
	return newName, nil
}

// Normalize trims name and adds the document extension when missing.
func (s *Service) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name != "" && !strings.HasSuffix(name, s.Ext) {
		name += s.Ext
	}
	return name
}

// Pages reads a document split into its explicit pages.
func (s *Service) Pages(name string) ([]string, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return document.Load(s.Persistence, name)
}

// Position is where editing stopped in a document.
type Position struct {
	Name    string
	Cursor  int
	Page    int
	Subpage int
}

func (p Position) String() string {
	return fmt.Sprintf("%s,%d,%d,%d", p.Name, p.Cursor, p.Page, p.Subpage)
}

// ParsePosition reads the sidecar format name,cursor,page,subpage. The name
// may itself contain commas.
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ",")
	if len(parts) < 4 {
		return Position{}, fmt.Errorf("app: bad cursor record %q", s)
	}
	n := len(parts)
	var nums [3]int
	for i, p := range parts[n-3:] {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return Position{}, fmt.Errorf("app: bad cursor record %q", s)
		}
		nums[i] = v
	}
	return Position{
		Name:    strings.Join(parts[:n-3], ","),
		Cursor:  nums[0],
		Page:    nums[1],
		Subpage: nums[2],
	}, nil
}

// Position reads the cursor sidecar. It reports false when there is none or
// it cannot be parsed.
func (s *Service) Position() (Position, bool) {
	if s.Persistence == nil {
		return Position{}, false
	}
	raw, err := s.Persistence.Read(CursorFile)
	if err != nil {
		return Position{}, false
	}
	pos, err := ParsePosition(raw)
	if err != nil {
		return Position{}, false
	}
	return pos, true
}
