package session

import (
	"sync"
	"time"

	"github.com/imartinez/iberoweather/internal/metrics"
)

// defaultTTL is how long an idle session keeps its state before Sweep drops it.
const defaultTTL = 6 * time.Hour

// Manager hands out per-session state, creating it lazily on first use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	loc      *time.Location
	ttl      time.Duration
}

func NewManager(loc *time.Location) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		loc:      loc,
		ttl:      defaultTTL,
	}
}

// Get returns the session for id, creating it when absent.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = newSession(id, m.loc)
		s.lastSeen = time.Now()
		m.sessions[id] = s
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
	return s
}

// Reset clears one session's state without removing it.
func (m *Manager) Reset(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.Reset()
	}
}

// Sweep drops sessions idle past the TTL and reports how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen) > m.ttl
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return removed
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
