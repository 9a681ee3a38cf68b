package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Arghadee4102H/ASEarnHub/internal/auth"
	"github.com/Arghadee4102H/ASEarnHub/internal/hints"
	"github.com/Arghadee4102H/ASEarnHub/internal/ledger"
	"github.com/Arghadee4102H/ASEarnHub/internal/membership"
	"github.com/Arghadee4102H/ASEarnHub/internal/services"
)

// TaskHandler handles earning endpoints: ad views, channel joins and the
// task history feed.
type TaskHandler struct {
	ledgerService   *services.LedgerService
	referralService *services.ReferralService
	verifier        membership.Verifier
	hintCache       *hints.Cache
	channelRefs     []string
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(ledgerService *services.LedgerService, referralService *services.ReferralService, verifier membership.Verifier, hintCache *hints.Cache, channelRefs []string) *TaskHandler {
	return &TaskHandler{
		ledgerService:   ledgerService,
		referralService: referralService,
		verifier:        verifier,
		hintCache:       hintCache,
		channelRefs:     channelRefs,
	}
}

// GetTasks returns the user's completed task events, newest first.
// GET /api/tasks?limit=50
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := h.ledgerService.GetUserTasks(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":    events,
		"channels": h.channelRefs,
	})
}

// GetAdStatus returns the advisory rate-limit hint for the ad button. It is
// served from the cache when fresh; the completion endpoint re-checks the
// limits inside its transaction regardless.
// GET /api/tasks/ad/status
func (h *TaskHandler) GetAdStatus(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if hint := h.hintCache.GetAdStatus(c.Request.Context(), userID); hint != nil {
		c.JSON(http.StatusOK, hint)
		return
	}

	decision, err := h.ledgerService.AdStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	hint := adHintFromDecision(decision)
	h.hintCache.SetAdStatus(c.Request.Context(), userID, hint)

	c.JSON(http.StatusOK, hint)
}

// CompleteAd credits one ad view, subject to the daily and hourly caps.
// POST /api/tasks/ad/complete
func (h *TaskHandler) CompleteAd(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.ledgerService.CompleteAd(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.hintCache.InvalidateAdStatus(c.Request.Context(), userID)

	// Milestone check is best-effort here; a missed credit is retried on the
	// referee's next earning.
	_ = h.referralService.CheckAndCreditReferrer(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{
		"event": result.Event,
		"user":  result.User,
	})
}

// CompleteChannelJoin credits a channel-join task once per channel. When a
// verifier bot is configured, membership is checked before crediting.
// POST /api/tasks/channel/complete
func (h *TaskHandler) CompleteChannelJoin(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		ChannelRef string `json:"channel_ref" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.knownChannel(req.ChannelRef) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channel", "kind": "VALIDATION"})
		return
	}

	telegramID, _ := auth.GetTelegramID(c)
	member, err := h.verifier.VerifyMembership(c.Request.Context(), telegramID, req.ChannelRef)
	if err != nil {
		respondError(c, ledger.ErrCapabilityFailed)
		return
	}
	if !member {
		c.JSON(http.StatusBadRequest, gin.H{"error": "join the channel first", "kind": "NOT_A_MEMBER"})
		return
	}

	result, err := h.ledgerService.CompleteChannelJoin(c.Request.Context(), userID, req.ChannelRef)
	if err != nil {
		respondError(c, err)
		return
	}

	_ = h.referralService.CheckAndCreditReferrer(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{
		"event": result.Event,
		"user":  result.User,
	})
}

func (h *TaskHandler) knownChannel(ref string) bool {
	for _, known := range h.channelRefs {
		if known == ref {
			return true
		}
	}
	return false
}

func adHintFromDecision(d *ledger.AdDecision) *hints.AdHint {
	hint := &hints.AdHint{
		Allowed:     d.Allowed,
		DailyCount:  d.DailyCount,
		DailyLimit:  ledger.DailyAdLimit,
		HourlyCount: d.HourlyCount,
		HourlyLimit: ledger.HourlyAdLimit,
	}
	if d.Reason != nil {
		hint.Reason = d.Reason.Error()
	}
	return hint
}
