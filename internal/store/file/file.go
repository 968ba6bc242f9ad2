// Package file appends chat lines to a plain text file.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vovakirdan/linechat/internal/store"
)

// Log writes one timestamped line per entry.
type Log struct {
	mu  sync.Mutex
	f   *os.File
	now func() time.Time
}

var _ store.ChatLog = (*Log)(nil)

// Open opens path for appending, creating it and its directory if needed.
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open chat log: %w", err)
	}
	return &Log{f: f, now: time.Now}, nil
}

// Append writes line prefixed with an RFC3339 timestamp.
func (l *Log) Append(_ context.Context, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := fmt.Fprintf(l.f, "%s %s\n", l.now().Format(time.RFC3339), line); err != nil {
		return fmt.Errorf("append chat line: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.f.Sync(); err != nil {
		l.f.Close()
		return fmt.Errorf("sync chat log: %w", err)
	}
	return l.f.Close()
}
