package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
	"github.com/akylbek/payment-system/fraud-detector/internal/repository"
)

type recordingPublisher struct {
	events []models.DetectionEvent
	err    error
}

func (p *recordingPublisher) PublishDetection(ctx context.Context, event models.DetectionEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type failingDetectionRepo struct{}

func (failingDetectionRepo) Save(ctx context.Context, ownerID int64, tx models.Transaction, verdict models.Verdict, detectedAt time.Time) (models.DetectionRecord, error) {
	return models.DetectionRecord{}, errors.New("disk full")
}

func (failingDetectionRepo) ListForUser(ctx context.Context, ownerID int64) ([]models.DetectionRecord, error) {
	return nil, errors.New("disk full")
}

func newDetectionFixture(t *testing.T) (*DetectionService, *repository.MemoryStore, *recordingPublisher, int64) {
	t.Helper()
	store := repository.NewMemoryStore()
	account, err := store.Create(context.Background(), "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	pub := &recordingPublisher{}
	svc := NewDetectionService(NewRiskEvaluator(DefaultRuleSet()), store, pub)
	fixed := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, store, pub, account.ID
}

func TestDetect_PersistsAndPublishes(t *testing.T) {
	svc, store, pub, owner := newDetectionFixture(t)
	ctx := context.Background()

	det, err := svc.Detect(ctx, owner, tx("B1", "S1", "50", models.MethodCryptocurrency))
	require.NoError(t, err)

	assert.Equal(t, models.VerdictFraudulent, det.Record.Verdict)
	assert.Equal(t, models.RuleFlaggedMethod, det.Rule)
	assert.Equal(t, owner, det.Record.OwnerID)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC), det.Record.DetectedAt)

	stored, err := store.ListForUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, det.Record, stored[0])

	require.Len(t, pub.events, 1)
	assert.Equal(t, det.Record.ID, pub.events[0].RecordID)
	assert.Equal(t, "50", pub.events[0].Amount)
	assert.Equal(t, models.RuleFlaggedMethod, pub.events[0].Rule)
}

func TestDetect_PublishFailureDoesNotFailRequest(t *testing.T) {
	svc, store, pub, owner := newDetectionFixture(t)
	pub.err = errors.New("broker down")

	det, err := svc.Detect(context.Background(), owner, tx("B1", "S1", "500", models.MethodPayPal))
	require.NoError(t, err)
	assert.Equal(t, models.VerdictLegitimate, det.Record.Verdict)

	stored, _ := store.ListForUser(context.Background(), owner)
	assert.Len(t, stored, 1)
}

func TestDetect_SaveFailureFailsRequest(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewDetectionService(NewRiskEvaluator(DefaultRuleSet()), failingDetectionRepo{}, pub)

	det, err := svc.Detect(context.Background(), 1, tx("B1", "S1", "500", models.MethodPayPal))
	require.Error(t, err)
	assert.Nil(t, det)
	assert.Empty(t, pub.events)
}

func TestDetect_UnknownOwnerRejected(t *testing.T) {
	svc, _, _, _ := newDetectionFixture(t)

	_, err := svc.Detect(context.Background(), 99, tx("B1", "S1", "500", models.MethodPayPal))
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestHistory_InsertionOrderPerOwner(t *testing.T) {
	svc, store, _, owner := newDetectionFixture(t)
	ctx := context.Background()

	other, err := store.Create(ctx, "bob", "bob@example.com", "hash")
	require.NoError(t, err)

	_, err = svc.Detect(ctx, owner, tx("B1", "S1", "10", models.MethodPayPal))
	require.NoError(t, err)
	_, err = svc.Detect(ctx, other.ID, tx("B2", "S2", "20", models.MethodPayPal))
	require.NoError(t, err)
	_, err = svc.Detect(ctx, owner, tx("B3", "B3", "30", models.MethodCreditCard))
	require.NoError(t, err)

	history, err := svc.History(ctx, owner)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "B1", history[0].Transaction.BuyerID)
	assert.Equal(t, "B3", history[1].Transaction.BuyerID)
	assert.Less(t, history[0].ID, history[1].ID)

	empty, err := svc.History(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHistory_StoreFailure(t *testing.T) {
	svc := NewDetectionService(NewRiskEvaluator(DefaultRuleSet()), failingDetectionRepo{}, nil)
	_, err := svc.History(context.Background(), 1)
	assert.Error(t, err)
}
