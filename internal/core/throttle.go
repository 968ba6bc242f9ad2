package core

import (
	"sync"
	"time"
)

// typingThrottle limits how often one connection's typing notices are relayed.
type typingThrottle struct {
	interval time.Duration

	mu   sync.Mutex
	last map[ConnID]time.Time
}

func newTypingThrottle(interval time.Duration) *typingThrottle {
	return &typingThrottle{
		interval: interval,
		last:     make(map[ConnID]time.Time),
	}
}

func (t *typingThrottle) allow(id ConnID, now time.Time) bool {
	if t == nil || t.interval <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.last[id]; ok && now.Sub(prev) < t.interval {
		return false
	}
	t.last[id] = now
	return true
}

func (t *typingThrottle) forget(id ConnID) {
	if t == nil {
		return
	}
	t.mu.Lock()
	delete(t.last, id)
	t.mu.Unlock()
}
