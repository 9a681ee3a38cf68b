package notify

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"go.uber.org/zap"

	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
)

// Notifier delivers withdrawal-request events out of band. Delivery failures
// are logged and never roll back the withdrawal record.
type Notifier interface {
	WithdrawalRequested(ctx context.Context, w *models.Withdrawal)
}

// TelegramNotifier posts withdrawal requests to the operator channel.
type TelegramNotifier struct {
	bot       *telego.Bot
	channelID int64
}

// NewTelegramNotifier creates a notifier for the given operator channel.
func NewTelegramNotifier(bot *telego.Bot, channelID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, channelID: channelID}
}

// WithdrawalRequested posts the structured request to the operator channel.
func (n *TelegramNotifier) WithdrawalRequested(ctx context.Context, w *models.Withdrawal) {
	text := fmt.Sprintf(
		"NEW WITHDRAWAL REQUEST\n\n"+
			"Name: %s\nUsername: @%s\nUser ID: %d\n"+
			"AS Points: %s\nMethod: %s\nRecipient: %s\n"+
			"Status: PENDING (under review)\nRequested: %s UTC",
		w.DisplayName, w.Username, w.UserID,
		w.AmountPoints.String(), w.Method, w.Recipient,
		w.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)

	if _, err := n.bot.SendMessage(ctx, tu.Message(tu.ID(n.channelID), text)); err != nil {
		logger.Log.Error("Withdrawal notification failed",
			zap.String("external_id", w.ExternalID),
			zap.Error(err))
		return
	}

	logger.Log.Info("Withdrawal notification sent", zap.String("external_id", w.ExternalID))
}

// NopNotifier drops notifications. Used when no operator channel is
// configured.
type NopNotifier struct{}

// WithdrawalRequested does nothing.
func (NopNotifier) WithdrawalRequested(ctx context.Context, w *models.Withdrawal) {}
