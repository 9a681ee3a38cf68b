package membership

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
)

// Verifier answers whether a Telegram user is a member of a channel. The
// ledger only credits a TG_JOIN after a positive answer.
type Verifier interface {
	VerifyMembership(ctx context.Context, telegramID int64, channelRef string) (bool, error)
}

// BotVerifier asks the Bot API via getChatMember. The bot must be an
// administrator of each task channel.
type BotVerifier struct {
	bot *telego.Bot
}

// NewBotVerifier creates a verifier backed by the given bot.
func NewBotVerifier(bot *telego.Bot) *BotVerifier {
	return &BotVerifier{bot: bot}
}

// VerifyMembership reports whether the user currently belongs to the channel.
func (v *BotVerifier) VerifyMembership(ctx context.Context, telegramID int64, channelRef string) (bool, error) {
	member, err := v.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: telego.ChatID{Username: ChannelUsername(channelRef)},
		UserID: telegramID,
	})
	if err != nil {
		return false, fmt.Errorf("getChatMember failed: %w", err)
	}

	switch member.MemberStatus() {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator, telego.MemberStatusMember:
		return true, nil
	}
	return false, nil
}

// StubVerifier approves every check. Used when no bot token is configured;
// the ledger contract is unaffected.
type StubVerifier struct{}

// VerifyMembership always reports membership.
func (StubVerifier) VerifyMembership(ctx context.Context, telegramID int64, channelRef string) (bool, error) {
	logger.Log.Warn("Membership verification stubbed, approving without check")
	return true, nil
}

// ChannelUsername converts a channel reference such as
// "https://t.me/ASearnhub" or "ASearnhub" to the "@ASearnhub" form the Bot
// API expects.
func ChannelUsername(channelRef string) string {
	ref := strings.TrimSpace(channelRef)
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		ref = ref[idx+1:]
	}
	if !strings.HasPrefix(ref, "@") {
		ref = "@" + ref
	}
	return ref
}
