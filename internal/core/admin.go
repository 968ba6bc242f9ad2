package core

import "sync"

// PasswordChecker verifies a supplied admin password.
type PasswordChecker interface {
	Matches(candidate string) bool
}

// Admin holds the single privileged connection slot. Privilege belongs to the
// connection, not to the nickname it uses.
type Admin struct {
	password PasswordChecker

	mu     sync.RWMutex
	holder ConnID
}

// NewAdmin creates an empty admin slot guarded by password.
func NewAdmin(password PasswordChecker) *Admin {
	return &Admin{password: password}
}

// TryElevate makes id the admin when supplied matches. The last successful
// login wins, even if another connection held the slot.
func (a *Admin) TryElevate(id ConnID, supplied string) error {
	if a.password == nil || !a.password.Matches(supplied) {
		return ErrWrongPassword
	}

	a.mu.Lock()
	a.holder = id
	a.mu.Unlock()
	return nil
}

// IsAdmin reports whether id currently holds the slot.
func (a *Admin) IsAdmin(id ConnID) bool {
	if id == NoConn {
		return false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.holder == id
}

// ClearIfAdmin empties the slot if id holds it and reports whether it did.
func (a *Admin) ClearIfAdmin(id ConnID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.holder == NoConn || a.holder != id {
		return false
	}
	a.holder = NoConn
	return true
}
