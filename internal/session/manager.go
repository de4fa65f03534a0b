// Package session caches fully-resolved identity state per external handle.
// It is a read-through copy of the persistence layer with a shorter lifetime
// than the source of truth; losing an entry only costs a re-authentication.
package session

import (
	"sync"
	"time"

	"github.com/okanassist/okanassist-backend/internal/metrics"
)

// DefaultTTL is how long a session is trusted after creation
const DefaultTTL = 30 * time.Minute

// Session is the resolved identity and preference state for one handle
type Session struct {
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Language      string     `json:"language"`
	Timezone      string     `json:"timezone"`
	Currency      string     `json:"currency"`
	IsPremium     bool       `json:"is_premium"`
	PremiumUntil  *time.Time `json:"premium_until,omitempty"`
	Authenticated bool       `json:"authenticated"`
	CreatedAt     time.Time  `json:"created_at"`
	LastSeen      time.Time  `json:"last_seen"`
}

// Complete reports whether the session satisfies the completeness invariant:
// user id, email, name and the authenticated flag all set. Incomplete
// sessions are never served from cache — they force re-authentication.
func (s *Session) Complete() bool {
	return s.UserID != "" && s.Email != "" && s.Name != "" && s.Authenticated
}

// Manager is an in-memory TTL cache keyed by external handle. Expiry is
// checked at read time; there is no background sweeper. Concurrent creates
// for the same handle are last-writer-wins, which is safe because session
// content is idempotently re-derivable from the persistence layer.
type Manager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewManager creates a session manager with the given time-to-live.
// A non-positive TTL falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Get returns the cached session for a handle if it is still alive and
// complete. A hit refreshes the last-seen timestamp but never the content.
func (m *Manager) Get(handle string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[handle]
	if !ok {
		return Session{}, false
	}
	if time.Since(s.CreatedAt) > m.ttl {
		delete(m.sessions, handle)
		metrics.SessionsActive.Set(float64(len(m.sessions)))
		return Session{}, false
	}
	if !s.Complete() {
		delete(m.sessions, handle)
		metrics.SessionsActive.Set(float64(len(m.sessions)))
		return Session{}, false
	}
	s.LastSeen = time.Now()
	return *s, true
}

// IsAuthenticated reports whether a live, complete session exists for the handle
func (m *Manager) IsAuthenticated(handle string) bool {
	_, ok := m.Get(handle)
	return ok
}

// Create stores a session for the handle, replacing any previous entry
func (m *Manager) Create(handle string, s Session) {
	now := time.Now()
	s.CreatedAt = now
	s.LastSeen = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[handle] = &s
	metrics.SessionsActive.Set(float64(len(m.sessions)))
}

// Invalidate drops the session for a handle, forcing re-authentication on
// the next request. Called when premium status changes.
func (m *Manager) Invalidate(handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, handle)
	metrics.SessionsActive.Set(float64(len(m.sessions)))
}

// Len returns the number of cached sessions, including not-yet-swept
// expired ones. Used by the health endpoint.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
