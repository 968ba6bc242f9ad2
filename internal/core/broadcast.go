package core

import (
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/linechat/internal/proto"
)

// Transport is the connection layer the core writes to. Send must not block
// on slow peers; ordering of sends to one connection must be preserved.
type Transport interface {
	Send(id ConnID, text string) error
	Close(id ConnID) error
	IsOpen(id ConnID) bool
}

// LogSink receives pre-formatted chat lines.
type LogSink interface {
	Write(line string)
}

// Broadcaster fans text out to open connections. Delivery is best effort:
// a connection that is closing is skipped without affecting the others.
type Broadcaster struct {
	transport Transport
	sessions  *Sessions
	log       *zerolog.Logger
}

// NewBroadcaster creates a broadcaster over the sessions registry.
func NewBroadcaster(transport Transport, sessions *Sessions, logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{transport: transport, sessions: sessions, log: logger}
}

// SendTo delivers text to one connection, dropping it if the connection is
// not writable.
func (b *Broadcaster) SendTo(id ConnID, text string) {
	if !b.transport.IsOpen(id) {
		return
	}
	if err := b.transport.Send(id, text); err != nil {
		b.log.Debug().Err(err).Str("conn_id", string(id)).Msg("drop outbound frame")
	}
}

// Broadcast delivers text to every admitted connection except except.
// Pass NoConn to reach everyone.
func (b *Broadcaster) Broadcast(text string, except ConnID) {
	b.fanOut(b.sessions.Snapshot(), text, except)
}

// BroadcastAuthenticated is Broadcast restricted to named sessions.
func (b *Broadcaster) BroadcastAuthenticated(text string, except ConnID) {
	named := lo.Filter(b.sessions.Snapshot(), func(s Session, _ int) bool {
		return s.Authenticated()
	})
	b.fanOut(named, text, except)
}

// PublishRoster sends the current roster frame to everyone.
func (b *Broadcaster) PublishRoster() {
	frame, err := proto.EncodeRoster(RosterFrame(b.sessions.Roster()))
	if err != nil {
		b.log.Error().Err(err).Msg("encode roster")
		return
	}
	b.Broadcast(frame, NoConn)
}

func (b *Broadcaster) fanOut(targets []Session, text string, except ConnID) {
	for _, s := range targets {
		if except != NoConn && s.ID == except {
			continue
		}
		b.SendTo(s.ID, text)
	}
}

// RosterFrame converts a roster snapshot into its wire shape.
func RosterFrame(entries []RosterEntry) []proto.RosterEntry {
	return lo.Map(entries, func(e RosterEntry, _ int) proto.RosterEntry {
		return proto.RosterEntry{
			Nickname: e.Nickname,
			LastSeen: e.LastSeen.UTC().Format(proto.LastSeenLayout),
		}
	})
}
