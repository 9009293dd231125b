package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestKafkaPublisher_KeysByOwner(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{writer: w}

	event := models.DetectionEvent{
		RecordID:   7,
		OwnerID:    42,
		BuyerID:    "B1",
		SellerID:   "S1",
		Amount:     "12.50",
		Result:     models.VerdictLegitimate,
		DetectedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.PublishDetection(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var decoded models.DetectionEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, event, decoded)
}
