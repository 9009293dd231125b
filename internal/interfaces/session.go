package interfaces

import (
	"context"
	"time"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

// SessionStore maps opaque session tokens to account ids
type SessionStore interface {
	Create(ctx context.Context, accountID int64, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// EventPublisher delivers committed detections to downstream consumers
type EventPublisher interface {
	PublishDetection(ctx context.Context, event models.DetectionEvent) error
}
