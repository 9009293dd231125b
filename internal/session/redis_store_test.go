package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

func TestRedisStore_Lifecycle(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	s := NewRedisStore(client)

	token, err := s.Create(ctx, 11, time.Minute)
	require.NoError(t, err)

	ttl, err := client.TTL(ctx, keyPrefix+token).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	id, err := s.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	require.NoError(t, s.Delete(ctx, token))
	_, err = s.Resolve(ctx, token)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = s.Resolve(ctx, "")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
