package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-detector/internal/middleware"
	"github.com/akylbek/payment-system/fraud-detector/internal/models"
	"github.com/akylbek/payment-system/fraud-detector/internal/service"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
)

// detectRequest accepts the amount as a JSON number, a quoted number or a form value.
type detectRequest struct {
	BuyerID       string      `form:"buyer_id" json:"buyer_id" binding:"required,max=64"`
	SellerID      string      `form:"seller_id" json:"seller_id" binding:"required,max=64"`
	Amount        json.Number `form:"amount" json:"amount" binding:"required"`
	PaymentMethod string      `form:"payment_method" json:"payment_method" binding:"required"`
}

type DetectionHandler struct {
	detections *service.DetectionService
	auth       middleware.Authenticator
}

func NewDetectionHandler(detections *service.DetectionService, auth middleware.Authenticator) *DetectionHandler {
	return &DetectionHandler{detections: detections, auth: auth}
}

func (h *DetectionHandler) Detect(c *gin.Context) {
	identity, ok := h.auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req detectRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buyer_id, seller_id, amount and payment_method are required"})
		return
	}

	tx, msg := req.transaction()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	detection, err := h.detections.Detect(c.Request.Context(), identity.AccountID, tx)
	if err != nil {
		telemetry.Logger.Error("Error recording detection",
			zap.Int64("account_id", identity.AccountID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"detection": detection.Record.View(),
		"rule":      detection.Rule,
	})
}

func (h *DetectionHandler) History(c *gin.Context) {
	identity, ok := h.auth.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	records, err := h.detections.History(c.Request.Context(), identity.AccountID)
	if err != nil {
		telemetry.Logger.Error("Error fetching detection history",
			zap.Int64("account_id", identity.AccountID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch detection history"})
		return
	}

	views := make([]models.DetectionView, 0, len(records))
	for _, r := range records {
		views = append(views, r.View())
	}
	c.JSON(http.StatusOK, gin.H{"detections": views})
}

// PaymentMethods lists the accepted payment_method values for form clients.
func (h *DetectionHandler) PaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"payment_methods": models.PaymentMethods})
}

func (r detectRequest) transaction() (models.Transaction, string) {
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return models.Transaction{}, "amount must be a number"
	}
	if models.CheckAmount(amount) != nil {
		return models.Transaction{}, "amount is out of range"
	}
	if amount.IsNegative() {
		return models.Transaction{}, "amount must not be negative"
	}
	method, ok := models.ParsePaymentMethod(r.PaymentMethod)
	if !ok {
		return models.Transaction{}, "unsupported payment_method"
	}
	return models.Transaction{
		BuyerID:       r.BuyerID,
		SellerID:      r.SellerID,
		Amount:        amount,
		PaymentMethod: method,
	}, ""
}
