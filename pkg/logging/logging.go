// Package logging is the firmware's leveled wrapper around the standard logger.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// DebugEnabled controls whether Debugf produces output.
// Set via --debug or INKPAD_LOG_DEBUG=true.
var DebugEnabled bool

// Debugf logs a message only when DebugEnabled is true.
func Debugf(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}

func Infof(format string, args ...any) {
	log.Printf("INFO: "+format, args...)
}

func Warnf(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}

func Errorf(format string, args ...any) {
	log.Printf("ERROR: "+format, args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the standard logger at path, creating parent directories as
// needed. An empty path leaves output on stderr. The simulator owns the
// terminal, so it always passes a file.
func Setup(path string) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if path == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

// Discard silences all output, e.g. for commands that print to stdout only.
func Discard() {
	log.SetOutput(io.Discard)
}
