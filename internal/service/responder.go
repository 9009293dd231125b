package service

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
)

const FraudCheckSubject = "fraud.check"

// CheckResponder answers fraud.check request/reply messages with a verdict.
// Nothing is persisted; callers own their records.
type CheckResponder struct {
	evaluator *RiskEvaluator
}

func NewCheckResponder(evaluator *RiskEvaluator) *CheckResponder {
	return &CheckResponder{evaluator: evaluator}
}

// Subscribe registers the responder on nc in the fraud-detector queue group.
func (r *CheckResponder) Subscribe(nc *nats.Conn) (*nats.Subscription, error) {
	return nc.QueueSubscribe(FraudCheckSubject, "fraud-detector", func(msg *nats.Msg) {
		reply, err := json.Marshal(r.Handle(msg.Data))
		if err != nil {
			telemetry.Logger.Error("Error marshaling fraud check reply", zap.Error(err))
			return
		}
		if err := msg.Respond(reply); err != nil {
			telemetry.Logger.Warn("Error responding to fraud check", zap.Error(err))
		}
	})
}

// Handle decodes one request payload and evaluates it.
func (r *CheckResponder) Handle(data []byte) models.FraudCheckResponse {
	var req models.FraudCheckRequest
	if err := json.Unmarshal(data, &req); err != nil {
		telemetry.Logger.Warn("Error unmarshaling fraud check request", zap.Error(err))
		return models.FraudCheckResponse{Error: "invalid request body"}
	}

	if models.CheckAmount(req.Amount) != nil {
		return models.FraudCheckResponse{Error: "invalid amount"}
	}

	verdict, rule := r.evaluator.Explain(models.Transaction{
		BuyerID:       req.BuyerID,
		SellerID:      req.SellerID,
		Amount:        req.Amount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	})
	return models.FraudCheckResponse{Verdict: verdict, Rule: rule}
}
