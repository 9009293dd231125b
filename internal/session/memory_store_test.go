package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	token, err := s.Create(ctx, 7, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	id, err := s.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	require.NoError(t, s.Delete(ctx, token))
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token, err := s.Create(context.Background(), 1, time.Minute)
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = s.Resolve(context.Background(), token)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestMemoryStore_TokensAreUnique(t *testing.T) {
	s := NewMemoryStore()
	a, _ := s.Create(context.Background(), 1, time.Hour)
	b, _ := s.Create(context.Background(), 1, time.Hour)
	assert.NotEqual(t, a, b)
}
