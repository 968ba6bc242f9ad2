package http

import (
	"context"
	"errors"
	"sync"

	"github.com/coder/websocket"

	"github.com/vovakirdan/linechat/internal/core"
)

var (
	// ErrPeerClosed is returned when writing to a connection that is closing.
	ErrPeerClosed = errors.New("peer closed")
	// ErrUnknownPeer is returned for ids with no live connection.
	ErrUnknownPeer = errors.New("unknown peer")
	// ErrSendBufferFull is returned when a slow peer's queue overflows.
	ErrSendBufferFull = errors.New("send buffer full")
)

// peer is one websocket connection with its outbound queue. Frames are
// written by a single goroutine in queue order.
type peer struct {
	id   core.ConnID
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan string
	closed bool
}

func newPeer(id core.ConnID, conn *websocket.Conn, buffer int) *peer {
	return &peer{
		id:   id,
		conn: conn,
		send: make(chan string, buffer),
	}
}

func (p *peer) enqueue(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPeerClosed
	}
	select {
	case p.send <- text:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// close stops accepting frames; the writer drains the queue and then closes
// the websocket. It reports whether this call did the closing.
func (p *peer) close() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	p.closed = true
	close(p.send)
	return true
}

func (p *peer) isOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

// Peers tracks live websocket connections and implements core.Transport.
type Peers struct {
	mu       sync.RWMutex
	byID     map[core.ConnID]*peer
	draining bool

	// handlers counts websocket handlers that have not finished teardown.
	handlers sync.WaitGroup
}

var _ core.Transport = (*Peers)(nil)

// NewPeers creates an empty peer set.
func NewPeers() *Peers {
	return &Peers{byID: make(map[core.ConnID]*peer)}
}

// add registers p. Once CloseAll has run, late arrivals are closed at once.
func (ps *Peers) add(p *peer) {
	ps.mu.Lock()
	ps.byID[p.id] = p
	draining := ps.draining
	ps.mu.Unlock()

	if draining {
		p.close()
	}
}

func (ps *Peers) remove(id core.ConnID) {
	ps.mu.Lock()
	delete(ps.byID, id)
	ps.mu.Unlock()
}

func (ps *Peers) get(id core.ConnID) (*peer, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.byID[id]
	return p, ok
}

// Send queues text for id without blocking.
func (ps *Peers) Send(id core.ConnID, text string) error {
	p, ok := ps.get(id)
	if !ok {
		return ErrUnknownPeer
	}
	return p.enqueue(text)
}

// Close starts closing the connection of id. Queued frames are still
// delivered. Closing an already closing peer is a no-op.
func (ps *Peers) Close(id core.ConnID) error {
	p, ok := ps.get(id)
	if !ok {
		return ErrUnknownPeer
	}
	p.close()
	return nil
}

// IsOpen reports whether id can still receive frames.
func (ps *Peers) IsOpen(id core.ConnID) bool {
	p, ok := ps.get(id)
	return ok && p.isOpen()
}

// CloseAll closes every connection and any that registers afterwards. Used
// on shutdown.
func (ps *Peers) CloseAll() int {
	ps.mu.Lock()
	ps.draining = true
	peers := make([]*peer, 0, len(ps.byID))
	for _, p := range ps.byID {
		peers = append(peers, p)
	}
	ps.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
	return len(peers)
}

// Len returns the number of live connections.
func (ps *Peers) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.byID)
}

// Wait blocks until every websocket handler has run its teardown, or ctx is
// done. http.Server.Shutdown does not wait for hijacked connections.
func (ps *Peers) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		ps.handlers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
