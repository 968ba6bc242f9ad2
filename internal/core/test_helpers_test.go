package core

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/linechat/internal/auth"
	"github.com/vovakirdan/linechat/internal/proto"
)

const testPassword = "correctpw"

var errTestClosed = errors.New("closed")

// fakeTransport records every frame per connection.
type fakeTransport struct {
	mu     sync.Mutex
	open   map[ConnID]bool
	frames map[ConnID][]string
	closes map[ConnID]int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		open:   make(map[ConnID]bool),
		frames: make(map[ConnID][]string),
		closes: make(map[ConnID]int),
	}
}

func (f *fakeTransport) connect(id ConnID) {
	f.mu.Lock()
	f.open[id] = true
	f.mu.Unlock()
}

func (f *fakeTransport) Send(id ConnID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open[id] {
		return errTestClosed
	}
	f.frames[id] = append(f.frames[id], text)
	return nil
}

func (f *fakeTransport) Close(id ConnID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open[id] = false
	f.closes[id]++
	return nil
}

func (f *fakeTransport) IsOpen(id ConnID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open[id]
}

func (f *fakeTransport) all(id ConnID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.frames[id])
}

// text returns the non-roster frames received by id.
func (f *fakeTransport) text(id ConnID) []string {
	var out []string
	for _, frame := range f.all(id) {
		if !strings.HasPrefix(frame, proto.RosterPrefix) {
			out = append(out, frame)
		}
	}
	return out
}

func (f *fakeTransport) rosters(id ConnID) int {
	n := 0
	for _, frame := range f.all(id) {
		if strings.HasPrefix(frame, proto.RosterPrefix) {
			n++
		}
	}
	return n
}

func (f *fakeTransport) last(id ConnID) string {
	text := f.text(id)
	if len(text) == 0 {
		return ""
	}
	return text[len(text)-1]
}

func (f *fakeTransport) closeCount(id ConnID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes[id]
}

type memorySink struct {
	mu    sync.Mutex
	lines []string
}

func (s *memorySink) Write(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
}

func (s *memorySink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

var fixedNow = time.Date(2026, time.October, 15, 14, 5, 9, 0, time.Local)

type testEnv struct {
	hub       *Hub
	transport *fakeTransport
	sink      *memorySink
}

func newTestEnv(t *testing.T, typingInterval time.Duration) *testEnv {
	t.Helper()

	secret, err := auth.NewSecret(testPassword, bcrypt.MinCost)
	require.NoError(t, err)

	tr := newFakeTransport()
	sink := &memorySink{}
	hub := NewHub(Options{
		Transport:      tr,
		Admin:          NewAdmin(secret),
		Sink:           sink,
		TypingInterval: typingInterval,
		Clock:          func() time.Time { return fixedNow },
	})
	return &testEnv{hub: hub, transport: tr, sink: sink}
}

func (e *testEnv) open(id ConnID) {
	e.transport.connect(id)
	e.hub.OnOpen(id)
}

func (e *testEnv) login(t *testing.T, id ConnID, name string) {
	t.Helper()
	e.open(id)
	e.hub.OnMessage(id, name)
	require.Equal(t, proto.Welcome(name), e.transport.last(id))
}

// disconnect emulates the transport reporting a closed connection.
func (e *testEnv) disconnect(id ConnID) {
	_ = e.transport.Close(id)
	e.hub.OnClose(id)
}
