package aggregate

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/fedvid/fedvid/internal/domain"
)

// SessionFactory builds a fresh session for a new caller.
type SessionFactory func() *Session

// Manager is an id-keyed registry of sessions with idle expiry.
type Manager struct {
	factory SessionFactory
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[string]*managedSession
}

type managedSession struct {
	session  *Session
	lastUsed time.Time
}

// NewManager creates a session manager. Sessions untouched for ttl are
// removed by Sweep.
func NewManager(factory SessionFactory, ttl time.Duration) *Manager {
	return &Manager{
		factory:  factory,
		ttl:      ttl,
		sessions: make(map[string]*managedSession),
	}
}

// Create registers a fresh session and returns its id.
func (m *Manager) Create() (string, *Session) {
	id := newSessionID()
	s := m.factory()

	m.mu.Lock()
	m.sessions[id] = &managedSession{session: s, lastUsed: time.Now()}
	m.mu.Unlock()

	return id, s
}

// Get returns the session for an id, refreshing its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	ms.lastUsed = time.Now()
	return ms.session, nil
}

// Delete clears and removes a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		ms.session.Clear()
	}
}

// Sweep removes sessions idle for longer than the ttl. Returns the number removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	var expired []*managedSession
	for id, ms := range m.sessions {
		if now.Sub(ms.lastUsed) > m.ttl {
			expired = append(expired, ms)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, ms := range expired {
		ms.session.Clear()
	}
	return len(expired)
}

func newSessionID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
