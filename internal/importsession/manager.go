package importsession

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("import session not found")

// Manager tracks live import sessions by id. Individual sessions are owned
// by a single client and never accessed concurrently; the manager's map is
// the only shared state and is guarded by a mutex.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
	}
}

// Create starts a new empty session for a user.
func (m *Manager) Create(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := NewSession(userID)
	s.now = m.now
	s.touched = m.now()
	m.sessions[s.ID] = s

	return s
}

// Get returns a session only to its owning user.
func (m *Manager) Get(id uuid.UUID, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}

	return s, nil
}

// Remove drops a session, releasing its parsed rows and drafts.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
}

// PruneIdle removes sessions that have not been touched for maxIdle.
// Returns the number of sessions removed.
func (m *Manager) PruneIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	pruned := 0

	for id, s := range m.sessions {
		if s.touched.Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}

	return pruned
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
