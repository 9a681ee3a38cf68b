package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the per-identity ledger record. Balance, counters and one-way flags
// are only ever mutated inside a ledger transaction; Version backs the
// optimistic compare-and-swap those transactions use.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TelegramID  int64  `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Username    string `gorm:"size:64" json:"username"`
	DisplayName string `gorm:"size:128" json:"display_name"`

	Balance     decimal.Decimal `gorm:"type:decimal(12,1);not null;default:0" json:"balance"`
	TotalEarned decimal.Decimal `gorm:"type:decimal(12,1);not null;default:0" json:"total_earned"`

	TotalTasksCompleted    int `gorm:"not null;default:0" json:"total_tasks_completed"`
	TotalAdsCompleted      int `gorm:"not null;default:0" json:"total_ads_completed"`
	TotalChannelsCompleted int `gorm:"not null;default:0" json:"total_channels_completed"`
	TotalCheckinsCompleted int `gorm:"not null;default:0" json:"total_checkins_completed"`
	ReferralsCount         int `gorm:"not null;default:0" json:"referrals_count"`

	StreakDay     int        `gorm:"not null;default:0" json:"streak_day"`
	LastCheckinAt *time.Time `json:"last_checkin_at,omitempty"`

	AdsDailyCount      int       `gorm:"not null;default:0" json:"ads_daily_count"`
	AdsHourlyCount     int       `gorm:"not null;default:0" json:"ads_hourly_count"`
	AdsLastDailyReset  time.Time `json:"ads_last_daily_reset"`
	AdsLastHourlyReset time.Time `json:"ads_last_hourly_reset"`

	ReferralCode           string `gorm:"uniqueIndex;size:64;not null" json:"referral_code"`
	ReferredByID           *uint  `gorm:"index" json:"referred_by_id,omitempty"`
	ReferredBy             *User  `gorm:"foreignKey:ReferredByID" json:"referred_by,omitempty"`
	ReferralEntryCompleted bool   `gorm:"not null;default:false" json:"referral_entry_completed"`
	ReferredBonusGiven     bool   `gorm:"not null;default:false" json:"referred_bonus_given"`

	// Bumped on every ledger write; a stale Version fails the guarded update.
	Version uint `gorm:"not null;default:0" json:"-"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// ChannelCompletion is the proof that a user completed a channel-join task.
// The composite unique index is what makes the dedup guarantee hold under
// concurrent completions of the same reference.
type ChannelCompletion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_channel" json:"user_id"`
	ChannelRef string    `gorm:"size:255;not null;uniqueIndex:idx_user_channel" json:"channel_ref"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ChannelCompletion) TableName() string {
	return "channel_completions"
}
