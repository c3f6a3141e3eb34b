package application

import (
	"sync"

	"herocraft/domain/entities"
)

// SessionRegistry maps accounts to their single live game session.
// Sessions are compared by identity, so a stale handle can never remove its successor.
type SessionRegistry[S comparable] struct {
	mu       sync.Mutex
	sessions map[int64]S
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry[S comparable]() *SessionRegistry[S] {
	return &SessionRegistry[S]{sessions: make(map[int64]S)}
}

// Reserve registers session for accountID or returns ErrSessionAlreadyActive
func (r *SessionRegistry[S]) Reserve(accountID int64, session S) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[accountID]; ok {
		return entities.ErrSessionAlreadyActive
	}
	r.sessions[accountID] = session
	return nil
}

// Get returns the live session of accountID
func (r *SessionRegistry[S]) Get(accountID int64) (S, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[accountID]
	return s, ok
}

// Release removes session if it is still the live one. It reports whether this
// call removed it, so exactly one terminal transition wins.
func (r *SessionRegistry[S]) Release(accountID int64, session S) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[accountID]
	if !ok || current != session {
		return false
	}
	delete(r.sessions, accountID)
	return true
}

// Len returns the number of live sessions
func (r *SessionRegistry[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Snapshot returns the live sessions
func (r *SessionRegistry[S]) Snapshot() []S {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]S, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
