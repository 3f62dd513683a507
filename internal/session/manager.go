package session

import (
	"sync"
	"time"
)

// Manager serializes event processing per chat to prevent interleaved
// replies when the platform delivers multiple events for the same chat
// simultaneously.
type Manager struct {
	mu      sync.Mutex
	mutexes map[string]*chatLock
}

type chatLock struct {
	mu       sync.Mutex
	lastUsed time.Time
}

func NewManager() *Manager {
	return &Manager{
		mutexes: make(map[string]*chatLock),
	}
}

// WithLock executes fn while holding the per-chat mutex. Concurrent events
// from the same chat are serialized; different chats run in parallel.
func (m *Manager) WithLock(chatID string, fn func() error) error {
	m.mu.Lock()
	cl, ok := m.mutexes[chatID]
	if !ok {
		cl = &chatLock{}
		m.mutexes[chatID] = cl
	}
	m.mu.Unlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.lastUsed = time.Now()
	return fn()
}

// Cleanup removes locks not used within maxAge to prevent memory leaks.
func (m *Manager) Cleanup(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for chatID, cl := range m.mutexes {
		if now.Sub(cl.lastUsed) > maxAge {
			delete(m.mutexes, chatID)
		}
	}
}
