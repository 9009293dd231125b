package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

func tx(buyer, seller, amount string, method models.PaymentMethod) models.Transaction {
	return models.Transaction{
		BuyerID:       buyer,
		SellerID:      seller,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: method,
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	e := NewRiskEvaluator(DefaultRuleSet())

	tests := []struct {
		name    string
		tx      models.Transaction
		verdict models.Verdict
		rule    models.Rule
	}{
		{"ordinary paypal", tx("B1", "S1", "500", models.MethodPayPal), models.VerdictLegitimate, models.RuleNone},
		{"same party", tx("B1", "B1", "50", models.MethodPayPal), models.VerdictFraudulent, models.RuleSelfDealing},
		{"crypto", tx("B1", "S1", "50", models.MethodCryptocurrency), models.VerdictFraudulent, models.RuleFlaggedMethod},
		{"just above threshold", tx("B1", "S1", "1000.01", models.MethodBankTransfer), models.VerdictFraudulent, models.RuleHighAmount},
		{"exactly threshold", tx("B1", "S1", "1000", models.MethodCreditCard), models.VerdictLegitimate, models.RuleNone},
		{"empty equal parties", tx("", "", "10", models.MethodPayPal), models.VerdictFraudulent, models.RuleSelfDealing},
		{"party ids are case sensitive", tx("b1", "B1", "10", models.MethodPayPal), models.VerdictLegitimate, models.RuleNone},
		{"negative amount passes through", tx("B1", "S1", "-5", models.MethodPayPal), models.VerdictLegitimate, models.RuleNone},
		{"high amount wins over other rules", tx("B1", "B1", "5000", models.MethodCryptocurrency), models.VerdictFraudulent, models.RuleHighAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, rule := e.Explain(tt.tx)
			assert.Equal(t, tt.verdict, verdict)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.verdict, e.Evaluate(tt.tx))
		})
	}
}

func TestEvaluate_AmountsAboveThresholdAlwaysFraudulent(t *testing.T) {
	e := NewRiskEvaluator(DefaultRuleSet())

	for _, amount := range []string{"1000.0000001", "1001", "25000", "1e9"} {
		for _, method := range models.PaymentMethods {
			assert.Equal(t, models.VerdictFraudulent, e.Evaluate(tx("B1", "S1", amount, method)), "amount %s via %s", amount, method)
		}
	}
}

func TestEvaluate_CryptoMatchIsCaseInsensitive(t *testing.T) {
	e := NewRiskEvaluator(DefaultRuleSet())

	for _, method := range []string{"CRYPTOCURRENCY", "cryptocurrency", "CryptoCurrency", "Cryptocurrency"} {
		assert.Equal(t, models.VerdictFraudulent, e.Evaluate(tx("B1", "S1", "10", models.PaymentMethod(method))), method)
	}
	// Other methods match exactly; a case variant is just an unflagged method.
	assert.Equal(t, models.VerdictLegitimate, e.Evaluate(tx("B1", "S1", "10", models.PaymentMethod("PAYPAL"))))
}

func TestEvaluate_OnlyCleanTransactionsAreLegitimate(t *testing.T) {
	e := NewRiskEvaluator(DefaultRuleSet())

	amounts := []string{"0", "0.01", "999.99", "1000"}
	parties := [][2]string{{"B1", "S1"}, {"B1", "B1"}, {"", ""}}
	methods := append([]models.PaymentMethod{"CRYPTOCURRENCY"}, models.PaymentMethods...)

	for _, amount := range amounts {
		for _, p := range parties {
			for _, m := range methods {
				want := models.VerdictLegitimate
				if p[0] == p[1] || m == models.MethodCryptocurrency || m == "CRYPTOCURRENCY" {
					want = models.VerdictFraudulent
				}
				name := fmt.Sprintf("%s/%s/%s/%s", amount, p[0], p[1], m)
				assert.Equal(t, want, e.Evaluate(tx(p[0], p[1], amount, m)), name)
			}
		}
	}
}

func TestEvaluate_IsDeterministicUnderConcurrency(t *testing.T) {
	e := NewRiskEvaluator(DefaultRuleSet())
	input := tx("B1", "S1", "500", models.MethodPayPal)
	first := e.Evaluate(input)

	var wg sync.WaitGroup
	results := make([]models.Verdict, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Evaluate(input)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, first, r)
	}
}

func TestRiskEvaluator_ConfiguredRules(t *testing.T) {
	rules := RuleSet{
		AmountThreshold: decimal.NewFromInt(100),
		FlaggedMethods:  []string{"cryptocurrency", "bank transfer"},
	}
	e := NewRiskEvaluator(rules)

	// Mutating the caller's slice must not change the evaluator.
	rules.FlaggedMethods[1] = "paypal"

	assert.Equal(t, models.VerdictFraudulent, e.Evaluate(tx("B1", "S1", "100.5", models.MethodPayPal)))
	assert.Equal(t, models.VerdictLegitimate, e.Evaluate(tx("B1", "S1", "100", models.MethodPayPal)))
	assert.Equal(t, models.VerdictFraudulent, e.Evaluate(tx("B1", "S1", "10", models.MethodBankTransfer)))
	assert.Equal(t, []string{"cryptocurrency", "bank transfer"}, e.Rules().FlaggedMethods)
}
