package http

import (
	"context"
	"errors"
	"io"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat/internal/core"
)

const (
	writeTimeout = 10 * time.Second
	closeGrace   = 5 * time.Second
)

// Hub is the connection lifecycle the websocket handler drives.
type Hub interface {
	OnOpen(id core.ConnID)
	OnMessage(id core.ConnID, raw string)
	OnClose(id core.ConnID)
	OnTransportError(id core.ConnID, err error)
	Roster() []core.RosterEntry
}

// WSHandler upgrades HTTP connections and feeds their text frames to the hub.
type WSHandler struct {
	hub             Hub
	peers           *Peers
	maxMessageBytes int64
	sendBuffer      int
	log             *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub Hub, peers *Peers, maxMessageBytes int64, sendBuffer int, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:             hub,
		peers:           peers,
		maxMessageBytes: maxMessageBytes,
		sendBuffer:      sendBuffer,
		log:             logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	h.peers.handlers.Add(1)
	defer h.peers.handlers.Done()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	if h.maxMessageBytes > 0 {
		conn.SetReadLimit(h.maxMessageBytes)
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	p := newPeer(core.NewConnID(), conn, h.sendBuffer)
	h.peers.add(p)
	defer h.peers.remove(p.id)

	writeDone := make(chan error, 1)
	go func() {
		writeDone <- h.writeLoop(ctx, p)
	}()

	h.hub.OnOpen(p.id)
	if err := h.readLoop(ctx, p); err != nil {
		h.hub.OnTransportError(p.id, err)
	}
	p.close()
	h.hub.OnClose(p.id)

	select {
	case err = <-writeDone:
	case <-time.After(closeGrace):
		cancel()
		err = <-writeDone
	}
	if err != nil && !isNormalClose(err) {
		h.log.Debug().Err(err).Str("conn_id", string(p.id)).Msg("ws writer stopped")
	}

	conn.Close(websocket.StatusNormalClosure, "closing")
}

func (h *WSHandler) readLoop(ctx context.Context, p *peer) error {
	for {
		typ, data, err := p.conn.Read(ctx)
		if err != nil {
			if !p.isOpen() || isNormalClose(err) {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			h.log.Debug().Str("conn_id", string(p.id)).Msg("ignoring binary frame")
			continue
		}
		h.hub.OnMessage(p.id, string(data))
	}
}

// writeLoop sends queued frames in order until the queue is closed, then
// closes the websocket.
func (h *WSHandler) writeLoop(ctx context.Context, p *peer) error {
	for {
		select {
		case text, ok := <-p.send:
			if !ok {
				return p.conn.Close(websocket.StatusNormalClosure, "closing")
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := p.conn.Write(writeCtx, websocket.MessageText, []byte(text))
			cancel()
			if err != nil {
				h.log.Warn().Err(err).Str("conn_id", string(p.id)).Msg("write ws frame")
				// Unblocks the reader so the normal teardown runs.
				p.conn.Close(websocket.StatusInternalError, "write failed")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func isNormalClose(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusNoStatusRcvd:
		return true
	}
	return false
}
