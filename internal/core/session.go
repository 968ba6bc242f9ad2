package core

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ConnID identifies one live transport connection. The transport owns the
// connection; the core only refers to it.
type ConnID string

// NoConn is passed as the exclusion to reach every connection.
const NoConn ConnID = ""

// NewConnID returns a fresh connection identifier.
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// Session is the identity of a single connection as seen by the core.
type Session struct {
	ID       ConnID
	Nickname string
	LastSeen time.Time
}

// Authenticated reports whether the session has claimed a nickname.
func (s Session) Authenticated() bool {
	return s.Nickname != ""
}

// RosterEntry is one row of the roster snapshot.
type RosterEntry struct {
	Nickname string
	LastSeen time.Time
}

// Sessions tracks every admitted connection. All methods are safe for
// concurrent use and each one is a single critical section.
type Sessions struct {
	mu    sync.RWMutex
	byID  map[ConnID]*Session
	order []ConnID
	now   func() time.Time
}

// NewSessions creates an empty registry. A nil clock means time.Now.
func NewSessions(clock func() time.Time) *Sessions {
	if clock == nil {
		clock = time.Now
	}
	return &Sessions{
		byID: make(map[ConnID]*Session),
		now:  clock,
	}
}

// Admit creates an unauthenticated session for id.
func (s *Sessions) Admit(id ConnID) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; exists {
		return Session{}, ErrAlreadyAdmitted
	}
	sess := &Session{ID: id, LastSeen: s.now()}
	s.byID[id] = sess
	s.order = append(s.order, id)
	return *sess, nil
}

// ClaimNickname assigns name to the session of id if no other session holds
// exactly the same nickname.
func (s *Sessions) ClaimNickname(id ConnID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if sess.Nickname != "" {
		return ErrNicknameSet
	}
	for otherID, other := range s.byID {
		if otherID != id && other.Nickname == name {
			return ErrNicknameTaken
		}
	}
	sess.Nickname = name
	sess.LastSeen = s.now()
	return nil
}

// Touch refreshes the activity timestamp. Unknown ids are ignored.
func (s *Sessions) Touch(id ConnID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[id]; ok {
		sess.LastSeen = s.now()
	}
}

// Remove detaches the session of id and returns it.
func (s *Sessions) Remove(id ConnID) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	delete(s.byID, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return *sess, nil
}

// Get returns a copy of the session of id.
func (s *Sessions) Get(id ConnID) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Lookup finds the connection holding nickname name.
func (s *Sessions) Lookup(name string) (ConnID, bool) {
	if name == "" {
		return NoConn, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if s.byID[id].Nickname == name {
			return id, true
		}
	}
	return NoConn, false
}

// Snapshot returns copies of all sessions in admission order.
func (s *Sessions) Snapshot() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id])
	}
	return out
}

// Nicknames returns the claimed nicknames in admission order.
func (s *Sessions) Nicknames() []string {
	return lo.FilterMap(s.Snapshot(), func(sess Session, _ int) (string, bool) {
		return sess.Nickname, sess.Authenticated()
	})
}

// Roster builds the roster snapshot of authenticated sessions.
func (s *Sessions) Roster() []RosterEntry {
	return lo.FilterMap(s.Snapshot(), func(sess Session, _ int) (RosterEntry, bool) {
		return RosterEntry{Nickname: sess.Nickname, LastSeen: sess.LastSeen}, sess.Authenticated()
	})
}

// Len returns the number of admitted connections.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
