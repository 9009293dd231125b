package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCreditCard     PaymentMethod = "Credit Card"
	MethodPayPal         PaymentMethod = "PayPal"
	MethodCryptocurrency PaymentMethod = "Cryptocurrency"
	MethodBankTransfer   PaymentMethod = "Bank Transfer"
)

// PaymentMethods lists the methods accepted by the detection form, in display order.
var PaymentMethods = []PaymentMethod{
	MethodCreditCard,
	MethodPayPal,
	MethodCryptocurrency,
	MethodBankTransfer,
}

// ParsePaymentMethod matches s exactly against the accepted methods.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

type Verdict string

const (
	VerdictFraudulent Verdict = "Fraudulent"
	VerdictLegitimate Verdict = "Legitimate"
)

func (v Verdict) Valid() bool {
	return v == VerdictFraudulent || v == VerdictLegitimate
}

// Rule names the check that produced a Fraudulent verdict.
type Rule string

const (
	RuleNone          Rule = ""
	RuleHighAmount    Rule = "high_amount"
	RuleSelfDealing   Rule = "self_dealing"
	RuleFlaggedMethod Rule = "flagged_method"
)

// Amount exponents outside this range cannot be stored in a Postgres NUMERIC
// column and make decimal comparisons arbitrarily expensive.
const (
	MinAmountExponent = -16383
	MaxAmountExponent = 131072
)

var ErrAmountOutOfRange = errors.New("amount out of range")

// CheckAmount rejects amounts whose exponent falls outside the storable range.
func CheckAmount(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp < MinAmountExponent || exp > MaxAmountExponent {
		return ErrAmountOutOfRange
	}
	return nil
}

// Transaction is the validated input of one evaluation.
type Transaction struct {
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// DetectionRecord is a persisted evaluation owned by one account.
type DetectionRecord struct {
	ID          int64
	OwnerID     int64
	Transaction Transaction
	Verdict     Verdict
	DetectedAt  time.Time
}

const DisplayTimeLayout = "January 02, 2006 03:04 PM"

// DetectionView is the read-only shape handed to the delivery layer.
type DetectionView struct {
	ID            int64     `json:"id"`
	BuyerID       string    `json:"buyer_id"`
	SellerID      string    `json:"seller_id"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Result        string    `json:"result"`
	DetectedAt    time.Time `json:"detected_at"`
	DetectedAtFmt string    `json:"detected_at_display"`
}

func (r DetectionRecord) View() DetectionView {
	return DetectionView{
		ID:            r.ID,
		BuyerID:       r.Transaction.BuyerID,
		SellerID:      r.Transaction.SellerID,
		Amount:        r.Transaction.Amount.String(),
		PaymentMethod: string(r.Transaction.PaymentMethod),
		Result:        string(r.Verdict),
		DetectedAt:    r.DetectedAt,
		DetectedAtFmt: r.DetectedAt.Format(DisplayTimeLayout),
	}
}

// DetectionEvent is published after a record is committed.
type DetectionEvent struct {
	RecordID      int64     `json:"record_id"`
	OwnerID       int64     `json:"owner_id"`
	BuyerID       string    `json:"buyer_id"`
	SellerID      string    `json:"seller_id"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Result        Verdict   `json:"result"`
	Rule          Rule      `json:"rule,omitempty"`
	DetectedAt    time.Time `json:"detected_at"`
}

// FraudCheckRequest is the request/reply payload on the fraud.check subject.
type FraudCheckRequest struct {
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

type FraudCheckResponse struct {
	Verdict Verdict `json:"verdict"`
	Rule    Rule    `json:"rule,omitempty"`
	Error   string  `json:"error,omitempty"`
}
