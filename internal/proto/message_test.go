package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeRosterFrame(t *testing.T) {
	frame, err := EncodeRoster([]RosterEntry{{Nickname: "Alice", LastSeen: "2026-10-15T10:00:00.000Z"}})
	require.NoError(t, err)
	require.Equal(t, `[USERS][{"nickname":"Alice","lastSeen":"2026-10-15T10:00:00.000Z"}]`, frame)
}

func TestEncodeEmptyRosterIsArray(t *testing.T) {
	frame, err := EncodeRoster(nil)
	require.NoError(t, err)
	require.Equal(t, "[USERS][]", frame)
}

func TestDecodeRoster(t *testing.T) {
	entries, ok, err := DecodeRoster(`[USERS][{"nickname":"Bob","lastSeen":"x"}]`)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []RosterEntry{{Nickname: "Bob", LastSeen: "x"}}, entries)

	_, ok, _ = DecodeRoster("Online: Bob")
	require.False(t, ok, "plain frame must not decode as roster")

	_, ok, err = DecodeRoster("[USERS]{broken")
	require.True(t, ok)
	require.Error(t, err)
}

func TestWelcomeNamesUser(t *testing.T) {
	got := Welcome("Alice")
	require.Regexp(t, `^Welcome Alice! `, got)
	require.Contains(t, got, "/msg")
}
