package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Arghadee4102H/ASEarnHub/internal/auth"
	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *services.UserService
	botToken    string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService *services.UserService, botToken string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		botToken:    botToken,
	}
}

// WebAppLogin authenticates a user by their Telegram Mini App init data.
// The init data is signed by Telegram with the bot token, so a valid
// signature proves the identity claims inside it.
// POST /auth/webapp
func (h *AuthHandler) WebAppLogin(c *gin.Context) {
	var req struct {
		InitData string `json:"init_data" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tgUser, err := auth.ValidateWebAppData(req.InitData, h.botToken)
	if err != nil {
		logger.Log.Debug("webapp auth rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
		return
	}

	user, err := h.userService.GetOrCreateFromWebApp(c.Request.Context(), tgUser)
	if err != nil {
		logger.Log.Error("failed to authenticate webapp user",
			zap.Int64("telegram_id", tgUser.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.TelegramID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout handles user logout (stateless JWT — client-side only)
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// GetMe returns the currently authenticated user's profile
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
