package store

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("store: not found")
	ErrExists      = errors.New("store: already exists")
	ErrInvalidName = errors.New("store: invalid name")
)

// Sink is the storage contract the editor depends on. Names are slash
// separated and relative to the store root.
type Sink interface {
	Read(name string) (string, error)
	Write(name, content string) error
	// List returns the names directly inside dir ending in ext, newest first.
	List(dir, ext string) ([]string, error)
	Remove(name string) error
	Rename(oldName, newName string) error
}

// Info describes a stored document.
type Info struct {
	Name     string
	Size     int64
	Modified time.Time
}

// Persistence is a Sink that can also describe and watch its documents.
type Persistence interface {
	Sink
	Stat(name string) (Info, error)
	Watch(ctx context.Context) (<-chan Event, error)
}

// ValidName reports whether name can be used as a document key.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

// inDir reports whether name sits directly inside dir.
func inDir(name, dir string) bool {
	d, f := path.Split(name)
	if strings.HasPrefix(f, ".") {
		return false
	}
	return strings.TrimSuffix(d, "/") == strings.Trim(dir, "/")
}
