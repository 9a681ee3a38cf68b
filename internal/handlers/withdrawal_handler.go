package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arghadee4102H/ASEarnHub/internal/auth"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
	"github.com/Arghadee4102H/ASEarnHub/internal/notify"
	"github.com/Arghadee4102H/ASEarnHub/internal/services"
)

// WithdrawalHandler handles payout requests and their history.
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
	notifier          notify.Notifier
}

// NewWithdrawalHandler creates a new WithdrawalHandler
func NewWithdrawalHandler(withdrawalService *services.WithdrawalService, notifier notify.Notifier) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
		notifier:          notifier,
	}
}

// GetWithdrawals returns the user's withdrawal history plus the method terms.
// GET /api/withdrawals
func (h *WithdrawalHandler) GetWithdrawals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	withdrawals, err := h.withdrawalService.GetUserWithdrawals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"withdrawals": withdrawals,
		"methods":     services.WithdrawalMethods(),
	})
}

// RequestWithdrawal debits the method's fixed amount and books a PENDING
// request for manual review.
// POST /api/withdrawals
func (h *WithdrawalHandler) RequestWithdrawal(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Method    string `json:"method" binding:"required"`
		Recipient string `json:"recipient" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method := models.WithdrawalMethod(req.Method)
	if err := services.ValidateRecipient(method, req.Recipient); err != nil {
		respondError(c, err)
		return
	}

	withdrawal, err := h.withdrawalService.RequestWithdrawal(c.Request.Context(), userID, method, req.Recipient)
	if err != nil {
		respondError(c, err)
		return
	}

	h.notifier.WithdrawalRequested(c.Request.Context(), withdrawal)

	c.JSON(http.StatusCreated, gin.H{
		"withdrawal": withdrawal,
	})
}
