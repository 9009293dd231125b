package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

type DetectionRepository struct {
	db *sql.DB
}

func NewDetectionRepository(db *sql.DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

// Save writes one record in a single statement; either the row exists afterwards or an error is returned.
func (r *DetectionRepository) Save(ctx context.Context, ownerID int64, tx models.Transaction, verdict models.Verdict, detectedAt time.Time) (models.DetectionRecord, error) {
	if !verdict.Valid() {
		return models.DetectionRecord{}, fmt.Errorf("invalid verdict %q", verdict)
	}

	record := models.DetectionRecord{
		OwnerID:     ownerID,
		Transaction: tx,
		Verdict:     verdict,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO detections (user_id, buyer_id, seller_id, amount, payment_method, result, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, detected_at
	`, ownerID, tx.BuyerID, tx.SellerID, tx.Amount, string(tx.PaymentMethod), string(verdict), detectedAt,
	).Scan(&record.ID, &record.DetectedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return models.DetectionRecord{}, fmt.Errorf("%w: %d", models.ErrAccountNotFound, ownerID)
		}
		return models.DetectionRecord{}, fmt.Errorf("failed to insert detection: %w", err)
	}
	record.DetectedAt = record.DetectedAt.UTC()
	return record, nil
}

func (r *DetectionRepository) ListForUser(ctx context.Context, ownerID int64) ([]models.DetectionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, buyer_id, seller_id, amount, payment_method, result, detected_at
		FROM detections
		WHERE user_id = $1
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []models.DetectionRecord{}
	for rows.Next() {
		var (
			rec    models.DetectionRecord
			method string
			result string
		)
		if err := rows.Scan(
			&rec.ID, &rec.OwnerID,
			&rec.Transaction.BuyerID, &rec.Transaction.SellerID, &rec.Transaction.Amount,
			&method, &result, &rec.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		rec.Transaction.PaymentMethod = models.PaymentMethod(method)
		rec.Verdict = models.Verdict(result)
		rec.DetectedAt = rec.DetectedAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
