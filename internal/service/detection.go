package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-detector/internal/interfaces"
	"github.com/akylbek/payment-system/fraud-detector/internal/models"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
)

// Detection is the outcome of one evaluated and persisted transaction.
type Detection struct {
	Record models.DetectionRecord
	Rule   models.Rule
}

type DetectionService struct {
	evaluator *RiskEvaluator
	repo      interfaces.DetectionRepository
	publisher interfaces.EventPublisher
	now       func() time.Time
}

// NewDetectionService wires the evaluator to its store. publisher may be nil.
func NewDetectionService(
	evaluator *RiskEvaluator,
	repo interfaces.DetectionRepository,
	publisher interfaces.EventPublisher,
) *DetectionService {
	return &DetectionService{
		evaluator: evaluator,
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Detect evaluates tx on behalf of ownerID and persists the result.
// A persistence failure fails the whole call; nothing is published then.
func (s *DetectionService) Detect(ctx context.Context, ownerID int64, tx models.Transaction) (*Detection, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "DetectionService.Detect")
	defer span.End()

	start := time.Now()
	verdict, rule := s.evaluator.Explain(tx)

	record, err := s.repo.Save(ctx, ownerID, tx, verdict, s.now())
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save detection: %w", err)
	}

	telemetry.DetectionDuration.Observe(time.Since(start).Seconds())
	telemetry.DetectionsTotal.WithLabelValues(string(verdict), string(rule)).Inc()
	span.SetAttributes(
		attribute.Int64("detection.id", record.ID),
		attribute.String("detection.verdict", string(verdict)),
		attribute.String("detection.rule", string(rule)),
	)

	telemetry.Logger.Info("Transaction evaluated",
		zap.Int64("detection_id", record.ID),
		zap.Int64("owner_id", ownerID),
		zap.String("verdict", string(verdict)),
		zap.String("rule", string(rule)),
	)

	s.publish(ctx, record, rule)

	return &Detection{Record: record, Rule: rule}, nil
}

// History returns the owner's records in insertion order.
func (s *DetectionService) History(ctx context.Context, ownerID int64) ([]models.DetectionRecord, error) {
	records, err := s.repo.ListForUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list detections: %w", err)
	}
	return records, nil
}

func (s *DetectionService) publish(ctx context.Context, record models.DetectionRecord, rule models.Rule) {
	if s.publisher == nil {
		return
	}

	event := models.DetectionEvent{
		RecordID:      record.ID,
		OwnerID:       record.OwnerID,
		BuyerID:       record.Transaction.BuyerID,
		SellerID:      record.Transaction.SellerID,
		Amount:        record.Transaction.Amount.String(),
		PaymentMethod: string(record.Transaction.PaymentMethod),
		Result:        record.Verdict,
		Rule:          rule,
		DetectedAt:    record.DetectedAt,
	}

	if err := s.publisher.PublishDetection(ctx, event); err != nil {
		telemetry.EventPublishFailures.Inc()
		telemetry.Logger.Warn("Failed to publish detection event",
			zap.Int64("detection_id", record.ID),
			zap.Error(err),
		)
	}
}
