package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndRecent(t *testing.T) {
	req := require.New(t)
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		req.NoError(s.Append(ctx, fmt.Sprintf("line %d", i)))
	}

	entries, err := s.Recent(ctx, 3)
	req.NoError(err)
	req.Len(entries, 3)

	var lines []string
	for _, e := range entries {
		lines = append(lines, e.Line)
		req.False(e.CreatedAt.IsZero())
	}
	req.Equal([]string{"line 2", "line 3", "line 4"}, lines)
}

func TestRecentEmpty(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSetupFailureIsReported(t *testing.T) {
	_, err := NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec("NOT SQL")
		return err
	})
	require.Error(t, err)
}

func TestAppendAfterClose(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.Error(t, s.Append(context.Background(), "late"))
}
