package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const tempDir = ".tmp"

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		return nil, errors.New("store: no config")
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// Files are edited out-of-band and diskv only busts its cache on its
		// own writes, so reads always go to disk.
		CacheSizeMax: 0,
		TempDir:      filepath.Join(basePath, tempDir),
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Read(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	val, err := p.d.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("store: read %s: %w", name, err)
	}
	return string(val), nil
}

func (p *persistence) Write(name, content string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := p.d.WriteString(name, content); err != nil {
		return fmt.Errorf("store: write %s: %w", name, err)
	}
	return nil
}

func (p *persistence) List(dir, ext string) ([]string, error) {
	if _, err := os.Stat(p.basePath); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	done := make(chan struct{})
	defer close(done)

	var infos []Info
	for key := range p.d.Keys(done) {
		if !inDir(key, dir) || !strings.HasSuffix(key, ext) {
			continue
		}
		info, err := p.Stat(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		infos = append(infos, info)
	}
	sortNewestFirst(infos)

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

func (p *persistence) Stat(name string) (Info, error) {
	if !ValidName(name) {
		return Info{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	fi, err := os.Stat(p.filename(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Info{}, fmt.Errorf("store: stat %s: %w", name, err)
	}
	return Info{Name: name, Size: fi.Size(), Modified: fi.ModTime()}, nil
}

func (p *persistence) Remove(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := p.d.Erase(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("store: remove %s: %w", name, err)
	}
	return nil
}

func (p *persistence) Rename(oldName, newName string) error {
	if !ValidName(oldName) || !ValidName(newName) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidName, oldName, newName)
	}
	if oldName == newName {
		return nil
	}
	if p.d.Has(newName) {
		return fmt.Errorf("%w: %s", ErrExists, newName)
	}
	if err := p.d.Import(p.filename(oldName), newName, true); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, oldName)
		}
		return fmt.Errorf("store: rename %s: %w", oldName, err)
	}
	return nil
}

func (p *persistence) filename(name string) string {
	return filepath.Join(p.basePath, filepath.FromSlash(name))
}

func sortNewestFirst(infos []Info) {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].Modified.Equal(infos[j].Modified) {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].Modified.After(infos[j].Modified)
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	parts := make([]string, 0, len(pathKey.Path)+1)
	for _, p := range pathKey.Path {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(append(parts, pathKey.FileName), "/")
}
