package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

type memoryEntry struct {
	accountID int64
	expiresAt time.Time
}

// MemoryStore is an in-memory session store for demo/test use.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, accountID int64, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.sessions[token] = memoryEntry{accountID: accountID, expiresAt: s.now().Add(ttl)}
	return token, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return 0, models.ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, token)
		return 0, models.ErrSessionNotFound
	}
	return entry.accountID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
