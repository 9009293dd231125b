package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

// RuleSet holds the tunable thresholds of the evaluator.
type RuleSet struct {
	// AmountThreshold is exclusive: amounts strictly above it are flagged.
	AmountThreshold decimal.Decimal
	// FlaggedMethods are compared case-insensitively.
	FlaggedMethods []string
}

func DefaultRuleSet() RuleSet {
	return RuleSet{
		AmountThreshold: decimal.NewFromInt(1000),
		FlaggedMethods:  []string{"cryptocurrency"},
	}
}

// RiskEvaluator classifies transactions. It holds no mutable state after
// construction and is safe for concurrent use.
type RiskEvaluator struct {
	rules RuleSet
}

func NewRiskEvaluator(rules RuleSet) *RiskEvaluator {
	methods := make([]string, len(rules.FlaggedMethods))
	copy(methods, rules.FlaggedMethods)
	rules.FlaggedMethods = methods
	return &RiskEvaluator{rules: rules}
}

func (e *RiskEvaluator) Rules() RuleSet {
	rules := e.rules
	rules.FlaggedMethods = append([]string(nil), e.rules.FlaggedMethods...)
	return rules
}

// Evaluate returns the verdict for tx.
func (e *RiskEvaluator) Evaluate(tx models.Transaction) models.Verdict {
	verdict, _ := e.Explain(tx)
	return verdict
}

// Explain returns the verdict together with the first rule that matched.
// Negative amounts are not rejected here; callers validate input.
func (e *RiskEvaluator) Explain(tx models.Transaction) (models.Verdict, models.Rule) {
	if tx.Amount.GreaterThan(e.rules.AmountThreshold) {
		return models.VerdictFraudulent, models.RuleHighAmount
	}
	if tx.BuyerID == tx.SellerID {
		return models.VerdictFraudulent, models.RuleSelfDealing
	}
	for _, m := range e.rules.FlaggedMethods {
		if strings.EqualFold(string(tx.PaymentMethod), m) {
			return models.VerdictFraudulent, models.RuleFlaggedMethod
		}
	}
	return models.VerdictLegitimate, models.RuleNone
}
