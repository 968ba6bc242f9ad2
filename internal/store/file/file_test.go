package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendWritesTimestampedLines(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "logs", "chat.log")

	l, err := Open(path)
	req.NoError(err)
	l.now = func() time.Time { return time.Date(2026, time.October, 15, 8, 30, 0, 0, time.UTC) }

	req.NoError(l.Append(context.Background(), "[Private] Alice: hi"))
	req.NoError(l.Append(context.Background(), "Bob disconnected."))
	req.NoError(l.Close())

	data, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal("2026-10-15T08:30:00Z [Private] Alice: hi\n2026-10-15T08:30:00Z Bob disconnected.\n", string(data))
}

func TestOpenAppendsToExistingFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "chat.log")
	req.NoError(os.WriteFile(path, []byte("old\n"), 0o644))

	l, err := Open(path)
	req.NoError(err)
	req.NoError(l.Append(context.Background(), "new"))
	req.NoError(l.Close())

	data, err := os.ReadFile(path)
	req.NoError(err)
	req.Contains(string(data), "old\n")
	req.Contains(string(data), " new\n")
}
