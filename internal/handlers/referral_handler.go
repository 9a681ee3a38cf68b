package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arghadee4102H/ASEarnHub/internal/auth"
	"github.com/Arghadee4102H/ASEarnHub/internal/services"
)

type ReferralHandler struct {
	userService     *services.UserService
	referralService *services.ReferralService
}

func NewReferralHandler(userService *services.UserService, referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{
		userService:     userService,
		referralService: referralService,
	}
}

// GetReferralCode returns the user's own referral code and invite count.
// GET /api/referral/code
func (h *ReferralHandler) GetReferralCode(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get referral code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"code":            user.ReferralCode,
			"referrals_count": user.ReferralsCount,
		},
	})
}

// ApplyReferralCode submits a referral code for the current user. A user can
// be referred at most once; the first accepted code is final.
// POST /api/referral/apply
func (h *ReferralHandler) ApplyReferralCode(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.referralService.SubmitReferralCode(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Referral code applied successfully",
		"user":    user,
	})
}

// GetReferrals returns all users the current user has referred.
// GET /api/referrals
func (h *ReferralHandler) GetReferrals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	referrals, err := h.userService.GetUserReferrals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    referrals,
		"count":   len(referrals),
	})
}
