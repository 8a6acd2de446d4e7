package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Persistence. Modification times advance by one
// second per write so listing order is deterministic.
type Memory struct {
	mu    sync.Mutex
	files map[string]memFile
	clock time.Time

	failWrites error
	writes     int
}

type memFile struct {
	content  string
	modified time.Time
}

func NewMemory() *Memory {
	return &Memory{
		files: make(map[string]memFile),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *Memory) Read(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f.content, nil
}

func (m *Memory) Write(name, content string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	m.clock = m.clock.Add(time.Second)
	m.files[name] = memFile{content: content, modified: m.clock}
	m.writes++
	return nil
}

// FailWrites makes every following Write return err. A nil err clears it.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	m.failWrites = err
	m.mu.Unlock()
}

// WriteCount is the number of successful writes so far.
func (m *Memory) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) List(dir, ext string) ([]string, error) {
	m.mu.Lock()
	infos := make([]Info, 0, len(m.files))
	for name, f := range m.files {
		if inDir(name, dir) && strings.HasSuffix(name, ext) {
			infos = append(infos, Info{Name: name, Size: int64(len(f.content)), Modified: f.modified})
		}
	}
	m.mu.Unlock()

	sortNewestFirst(infos)
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

func (m *Memory) Stat(name string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[name]
	if !ok {
		return Info{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Info{Name: name, Size: int64(len(f.content)), Modified: f.modified}, nil
}

func (m *Memory) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.files, name)
	return nil
}

func (m *Memory) Rename(oldName, newName string) error {
	if !ValidName(newName) {
		return fmt.Errorf("%w: %q", ErrInvalidName, newName)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := m.files[newName]; exists {
		return fmt.Errorf("%w: %s", ErrExists, newName)
	}
	delete(m.files, oldName)
	m.files[newName] = f
	return nil
}

// Watch returns a channel that never delivers; it closes when ctx is done.
func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
