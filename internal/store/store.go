// Package store defines where formatted chat lines end up.
package store

import (
	"context"
	"fmt"
	"time"
)

// Driver names accepted in configuration.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverNone   = "none"
)

// Entry is one persisted chat-log line.
type Entry struct {
	ID        int64
	Line      string
	CreatedAt time.Time
}

// ChatLog is an append-only destination for chat lines. Durability and
// rotation are the implementation's concern.
type ChatLog interface {
	Append(ctx context.Context, line string) error
	Close() error
}

// ValidDriver reports whether name is a known chat-log driver.
func ValidDriver(name string) error {
	switch name {
	case DriverFile, DriverSQLite, DriverNone:
		return nil
	default:
		return fmt.Errorf("unknown chat log driver %q", name)
	}
}
