// Package session owns the per-user conversation buffers that condition the
// generation prompt. Buffers are explicit objects with a defined lifecycle:
// created on a user's first turn, capped per user, and evicted by TTL plus an
// LRU bound on the number of live sessions.
package session

import (
	"sync"
	"time"

	"mood-aware-chat/internal/domain/model"
)

// Exchange is one completed turn: the user's question and the generated reply.
type Exchange struct {
	Question string
	Reply    string
	Mood     model.Mood
	At       time.Time
}

type userSession struct {
	userID    string
	exchanges []Exchange
	lastSeen  time.Time
}

type Manager struct {
	mu           sync.Mutex
	sessions     map[string]*userSession
	ttl          time.Duration
	maxSessions  int
	maxExchanges int
}

func NewManager(ttl time.Duration, maxSessions, maxExchanges int) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if maxSessions <= 0 {
		maxSessions = 1024
	}
	if maxExchanges <= 0 {
		maxExchanges = 10
	}
	return &Manager{
		sessions:     make(map[string]*userSession),
		ttl:          ttl,
		maxSessions:  maxSessions,
		maxExchanges: maxExchanges,
	}
}

// Record appends a completed exchange to the user's buffer, creating the
// session on first use.
func (m *Manager) Record(userID string, ex Exchange) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		if len(m.sessions) >= m.maxSessions {
			m.evictOldestLocked()
		}
		s = &userSession{userID: userID}
		m.sessions[userID] = s
	}
	s.exchanges = append(s.exchanges, ex)
	if len(s.exchanges) > m.maxExchanges {
		s.exchanges = s.exchanges[len(s.exchanges)-m.maxExchanges:]
	}
	s.lastSeen = time.Now()
}

// RecentExchanges returns up to n exchanges, oldest first, or nil when the
// user has no live session.
func (m *Manager) RecentExchanges(userID string, n int) []Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok || n <= 0 {
		return nil
	}
	ex := s.exchanges
	if len(ex) > n {
		ex = ex[len(ex)-n:]
	}
	out := make([]Exchange, len(ex))
	copy(out, ex)
	s.lastSeen = time.Now()
	return out
}

// EvictExpired drops sessions idle longer than the TTL and reports how many
// were removed.
func (m *Manager) EvictExpired(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// caller holds the lock
func (m *Manager) evictOldestLocked() {
	var oldest *userSession
	for _, s := range m.sessions {
		if oldest == nil || s.lastSeen.Before(oldest.lastSeen) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(m.sessions, oldest.userID)
	}
}
