package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arghadee4102H/ASEarnHub/internal/ledger"
)

// respondError maps a ledger rejection to a status and a specific message so
// the client can render more than a generic failure banner.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": "Internal server error"}

	switch {
	case ledger.IsRateLimited(err):
		status = http.StatusTooManyRequests
		body = gin.H{"error": err.Error(), "kind": "RATE_LIMITED"}
	case ledger.IsStateConflict(err):
		status = http.StatusConflict
		body = gin.H{"error": err.Error(), "kind": "STATE_CONFLICT"}
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
		body = gin.H{"error": err.Error(), "kind": "INSUFFICIENT_BALANCE"}
	case errors.Is(err, ledger.ErrUserNotFound), errors.Is(err, ledger.ErrInvalidCode):
		status = http.StatusNotFound
		body = gin.H{"error": err.Error(), "kind": "NOT_FOUND"}
	case errors.Is(err, ledger.ErrEmptyCode),
		errors.Is(err, ledger.ErrInvalidRecipient),
		errors.Is(err, ledger.ErrUnknownEventType):
		status = http.StatusBadRequest
		body = gin.H{"error": err.Error(), "kind": "VALIDATION"}
	case errors.Is(err, ledger.ErrCapabilityFailed):
		status = http.StatusBadRequest
		body = gin.H{"error": err.Error(), "kind": "CAPABILITY_FAILED"}
	case ledger.IsRetryable(err):
		status = http.StatusServiceUnavailable
		body = gin.H{"error": err.Error(), "kind": "TRANSIENT", "retryable": true}
	}

	c.JSON(status, body)
}
