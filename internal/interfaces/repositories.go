package interfaces

import (
	"context"
	"time"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

// DetectionRepository defines the contract for detection record data access
type DetectionRepository interface {
	Save(ctx context.Context, ownerID int64, tx models.Transaction, verdict models.Verdict, detectedAt time.Time) (models.DetectionRecord, error)
	ListForUser(ctx context.Context, ownerID int64) ([]models.DetectionRecord, error)
}

// AccountRepository defines the contract for account data access.
// Create must report models.ErrDuplicateUsername / models.ErrDuplicateEmail
// when a uniqueness constraint rejects the insert.
type AccountRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.Account, error)
	GetByUsername(ctx context.Context, username string) (models.Account, error)
	GetByID(ctx context.Context, id int64) (models.Account, error)
}
