package session

import (
	"context"
	"sync"
	"time"

	"advisor_backend/internal/feature/scorecard/domain/entity"
	"advisor_backend/internal/feature/scorecard/usecase"
)

// SessionMemory implements usecase.SessionRepository in process memory.
// It is used when Redis is not configured; sessions are lost on restart.
type SessionMemory struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryItem
}

type memoryItem struct {
	session   entity.Session
	expiresAt time.Time
}

// Compile-time check to ensure SessionMemory implements SessionRepository.
var _ usecase.SessionRepository = (*SessionMemory)(nil)

// NewSessionMemory creates a new SessionMemory instance.
func NewSessionMemory(ttl time.Duration) *SessionMemory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionMemory{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memoryItem),
	}
}

// Get retrieves a copy of the session. Expired entries are removed on access.
func (m *SessionMemory) Get(ctx context.Context, id string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[id]
	if !ok {
		return nil, usecase.ErrSessionNotFound
	}
	if m.now().After(it.expiresAt) {
		delete(m.items, id)
		return nil, usecase.ErrSessionNotFound
	}
	s := it.session
	s.Catalog.Models = append([]string(nil), it.session.Catalog.Models...)
	return &s, nil
}

// Save stores a copy of the session and refreshes its expiry.
func (m *SessionMemory) Save(ctx context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	cp.Catalog.Models = append([]string(nil), s.Catalog.Models...)
	m.items[s.ID] = memoryItem{session: cp, expiresAt: m.now().Add(m.ttl)}
	m.sweepLocked()
	return nil
}

// sweepLocked drops expired entries. The caller must hold m.mu.
func (m *SessionMemory) sweepLocked() {
	now := m.now()
	for id, it := range m.items {
		if now.After(it.expiresAt) {
			delete(m.items, id)
		}
	}
}
