package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

// MemoryStore is an in-memory account and detection store for tests and
// for running without DATABASE_URL. It enforces the same uniqueness and
// ownership rules as the Postgres schema.
type MemoryStore struct {
	mu         sync.RWMutex
	accounts   []models.Account
	detections map[int64][]models.DetectionRecord
	nextDetID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		detections: make(map[int64][]models.DetectionRecord),
	}
}

func (s *MemoryStore) Create(ctx context.Context, username, email, passwordHash string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Username == username {
			return models.Account{}, models.ErrDuplicateUsername
		}
	}
	for _, a := range s.accounts {
		if a.Email == email {
			return models.Account{}, models.ErrDuplicateEmail
		}
	}

	account := models.Account{
		ID:           int64(len(s.accounts) + 1),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		JoinedAt:     time.Now().UTC(),
	}
	s.accounts = append(s.accounts, account)
	return account, nil
}

func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return models.Account{}, models.ErrAccountNotFound
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 1 || id > int64(len(s.accounts)) {
		return models.Account{}, models.ErrAccountNotFound
	}
	return s.accounts[id-1], nil
}

func (s *MemoryStore) Save(ctx context.Context, ownerID int64, tx models.Transaction, verdict models.Verdict, detectedAt time.Time) (models.DetectionRecord, error) {
	if !verdict.Valid() {
		return models.DetectionRecord{}, fmt.Errorf("invalid verdict %q", verdict)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ownerID < 1 || ownerID > int64(len(s.accounts)) {
		return models.DetectionRecord{}, fmt.Errorf("%w: %d", models.ErrAccountNotFound, ownerID)
	}

	s.nextDetID++
	record := models.DetectionRecord{
		ID:          s.nextDetID,
		OwnerID:     ownerID,
		Transaction: tx,
		Verdict:     verdict,
		DetectedAt:  detectedAt.UTC(),
	}
	s.detections[ownerID] = append(s.detections[ownerID], record)
	return record, nil
}

func (s *MemoryStore) ListForUser(ctx context.Context, ownerID int64) ([]models.DetectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.DetectionRecord, len(s.detections[ownerID]))
	copy(records, s.detections[ownerID])
	return records, nil
}
