package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arghadee4102H/ASEarnHub/internal/auth"
	"github.com/Arghadee4102H/ASEarnHub/internal/services"
)

// CheckinHandler handles the daily check-in endpoints.
type CheckinHandler struct {
	ledgerService   *services.LedgerService
	referralService *services.ReferralService
}

// NewCheckinHandler creates a new CheckinHandler
func NewCheckinHandler(ledgerService *services.LedgerService, referralService *services.ReferralService) *CheckinHandler {
	return &CheckinHandler{
		ledgerService:   ledgerService,
		referralService: referralService,
	}
}

// GetStatus returns whether today's check-in is still claimable and what it
// would pay. UTC calendar days decide "today".
// GET /api/checkin
func (h *CheckinHandler) GetStatus(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	decision, err := h.ledgerService.CheckinStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claimable":  decision.Claimable,
		"streak_day": decision.NewStreakDay,
		"reward":     decision.Reward,
	})
}

// Claim performs today's check-in.
// POST /api/checkin
func (h *CheckinHandler) Claim(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.ledgerService.ClaimCheckin(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Milestone evaluation runs after every task completion; a missed credit
	// is retried on the next one.
	_ = h.referralService.CheckAndCreditReferrer(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{
		"event": result.Event,
		"user":  result.User,
	})
}
