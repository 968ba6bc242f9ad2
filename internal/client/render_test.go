package client

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/linechat/internal/proto"
)

func newTestRenderer(showRoster bool) (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, showRoster)
	r.loc = time.UTC
	return r, &buf
}

func TestRenderRosterTable(t *testing.T) {
	r, buf := newTestRenderer(true)

	frame, err := proto.EncodeRoster([]proto.RosterEntry{
		{Nickname: "Alice", LastSeen: "2026-10-15T12:05:09.000Z"},
		{Nickname: "Bob", LastSeen: "garbage"},
	})
	require.NoError(t, err)
	require.NoError(t, r.Render(frame))

	out := buf.String()
	require.Contains(t, out, "Alice")
	require.Contains(t, out, "2026-10-15 12:05:09")
	require.Contains(t, out, "Bob")
	require.Contains(t, out, "garbage")
}

func TestRenderRosterHiddenByDefault(t *testing.T) {
	r, buf := newTestRenderer(false)

	require.NoError(t, r.Render(proto.RosterPrefix+`[{"nickname":"Alice","lastSeen":""}]`))
	require.Empty(t, buf.String())
}

func TestRenderRejectsBrokenRoster(t *testing.T) {
	r, _ := newTestRenderer(true)
	require.Error(t, r.Render(proto.RosterPrefix+"{not json"))
}

func TestRenderLastSeenTable(t *testing.T) {
	r, buf := newTestRenderer(false)

	require.NoError(t, r.Render("Last seen:\n- Alice: Online\n- Bob: Online"))

	out := buf.String()
	require.Contains(t, out, proto.LastSeenHeader)
	require.Contains(t, out, "Alice")
	require.Contains(t, out, "Bob")
	require.Contains(t, out, proto.StatusOnline)
}

func TestRenderLines(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{name: "typing", frame: "[TYPING] Bob", want: "Bob is typing..."},
		{name: "private", frame: "[Private] Alice: hi there", want: "[Private] Alice: hi there"},
		{name: "private echo", frame: "(to Bob): hi there", want: "(to Bob): hi there"},
		{name: "chat", frame: "[10/15/2026, 2:05:09 PM -- Alice] hello", want: "[10/15/2026, 2:05:09 PM -- Alice] hello\n"},
		{name: "system", frame: "Bob joined the chat", want: "Bob joined the chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newTestRenderer(false)
			require.NoError(t, r.Render(tt.frame))
			require.Contains(t, buf.String(), tt.want)
		})
	}
}
