package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Session is the server-side record of a logged-in client, independent of
// the bearer token the client also holds. Its TTL is configured separately
// from the token lifetime; the two clocks are not unified.
type Session struct {
	UserID    string
	Username  string
	Email     string
	ExpiresAt time.Time
}

// SessionStore records currently-logged-in state keyed by an opaque
// session identifier.
type SessionStore interface {
	Open(id string, s Session)
	Get(id string) (Session, bool)
	Close(id string)
}

// NewSessionID generates an opaque session identifier
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MemorySessionStore is an in-process SessionStore with per-entry expiry
type MemorySessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

// NewMemorySessionStore creates a store whose sessions live for ttl
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Open writes the session state for a client
func (m *MemorySessionStore) Open(id string, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ExpiresAt = m.now().Add(m.ttl)
	m.sessions[id] = s
}

// Get returns the session for id if it exists and has not expired.
// Expired entries are removed on access.
func (m *MemorySessionStore) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, false
	}
	return s, true
}

// Close clears all session state for id. Closing an unknown id is a no-op.
func (m *MemorySessionStore) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
