package core

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat/internal/proto"
)

// Options configures a Hub. Transport and Admin are required; the stores are
// created when left nil so several hubs can live in one process.
type Options struct {
	Transport Transport
	Admin     *Admin
	Sessions  *Sessions
	Mutes     *Mutes
	Sink      LogSink
	// TypingInterval is the minimum gap between relayed typing notices of
	// one connection. Zero disables throttling.
	TypingInterval time.Duration
	Clock          func() time.Time
	Logger         *zerolog.Logger
}

// Hub wires connections in and out of the chat: it admits new connections,
// hands their lines to the dispatcher and tears them down on close.
type Hub struct {
	sessions   *Sessions
	mutes      *Mutes
	admin      *Admin
	out        *Broadcaster
	transport  Transport
	sink       LogSink
	typing     *typingThrottle
	dispatcher *Dispatcher
	log        *zerolog.Logger
}

// NewHub creates a hub from opts.
func NewHub(opts Options) *Hub {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = NewSessions(clock)
	}
	mutes := opts.Mutes
	if mutes == nil {
		mutes = NewMutes()
	}
	admin := opts.Admin
	if admin == nil {
		admin = NewAdmin(nil)
	}
	sink := opts.Sink
	if sink == nil {
		sink = DiscardSink{}
	}

	out := NewBroadcaster(opts.Transport, sessions, logger)
	typing := newTypingThrottle(opts.TypingInterval)

	return &Hub{
		sessions:  sessions,
		mutes:     mutes,
		admin:     admin,
		out:       out,
		transport: opts.Transport,
		sink:      sink,
		typing:    typing,
		dispatcher: &Dispatcher{
			sessions:  sessions,
			mutes:     mutes,
			admin:     admin,
			out:       out,
			transport: opts.Transport,
			sink:      sink,
			typing:    typing,
			now:       clock,
			log:       logger,
		},
		log: logger,
	}
}

// OnOpen admits a new connection and prompts it for a nickname.
func (h *Hub) OnOpen(id ConnID) {
	if _, err := h.sessions.Admit(id); err != nil {
		h.log.Error().Err(err).Str("conn_id", string(id)).Msg("admit connection")
		if closeErr := h.transport.Close(id); closeErr != nil {
			h.log.Debug().Err(closeErr).Str("conn_id", string(id)).Msg("close after failed admit")
		}
		return
	}
	h.log.Debug().Str("conn_id", string(id)).Int("connections", h.sessions.Len()).Msg("connection admitted")
	h.out.SendTo(id, proto.NicknamePrompt)
	h.out.PublishRoster()
}

// OnMessage dispatches one inbound line.
func (h *Hub) OnMessage(id ConnID, raw string) {
	h.dispatcher.Dispatch(id, raw)
}

// OnClose tears a connection down. It must run exactly once per admitted
// connection, after the transport stopped reading from it.
func (h *Hub) OnClose(id ConnID) {
	// Best-effort final roster that still lists the departing session.
	h.sessions.Touch(id)
	h.out.PublishRoster()

	sess, err := h.sessions.Remove(id)
	if err != nil {
		h.log.Error().Err(err).Str("conn_id", string(id)).Msg("teardown of unknown connection")
		return
	}

	name := sess.Nickname
	if name == "" {
		name = proto.AnonymousUser
	} else {
		h.mutes.Purge(sess.Nickname)
	}
	if h.admin.ClearIfAdmin(id) {
		h.log.Info().Str("nickname", name).Msg("admin disconnected")
	}
	h.typing.forget(id)

	h.out.Broadcast(name+" has left the chat.", NoConn)
	h.out.PublishRoster()
	h.sink.Write(name + " disconnected.")

	h.log.Info().Str("conn_id", string(id)).Str("nickname", name).Msg("connection closed")
}

// OnTransportError logs err and force-closes the connection; the transport
// then reports the close through OnClose.
func (h *Hub) OnTransportError(id ConnID, err error) {
	h.log.Warn().Err(err).Str("conn_id", string(id)).Msg("transport error")
	if closeErr := h.transport.Close(id); closeErr != nil {
		h.log.Debug().Err(closeErr).Str("conn_id", string(id)).Msg("force close")
	}
}

// Roster returns the current roster snapshot.
func (h *Hub) Roster() []RosterEntry {
	return h.sessions.Roster()
}

// DiscardSink drops every line.
type DiscardSink struct{}

func (DiscardSink) Write(string) {}
