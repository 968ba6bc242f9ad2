package core

import "sync"

// Mutes is the set of nicknames that may not send chat. Entries are keyed by
// nickname, so a name can be muted before anyone holds it.
type Mutes struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewMutes creates an empty mute set.
func NewMutes() *Mutes {
	return &Mutes{names: make(map[string]struct{})}
}

// Mute silences name. Muting an already muted name is a no-op.
func (m *Mutes) Mute(name string) {
	m.mu.Lock()
	m.names[name] = struct{}{}
	m.mu.Unlock()
}

// Unmute lifts a mute on name, if any.
func (m *Mutes) Unmute(name string) {
	m.mu.Lock()
	delete(m.names, name)
	m.mu.Unlock()
}

// Purge drops a stale entry when the holder of name disconnects.
func (m *Mutes) Purge(name string) {
	m.Unmute(name)
}

// IsMuted reports whether name may not send chat.
func (m *Mutes) IsMuted(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.names[name]
	return ok
}
