package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Arghadee4102H/ASEarnHub/internal/ledger"
	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
)

// casAttempts is the retry budget for optimistic version conflicts before the
// operation surfaces as retryable to the caller.
const casAttempts = 3

// errCASConflict aborts one transaction attempt when the guarded user update
// matched no row (another writer committed between our read and write).
var errCASConflict = errors.New("stale user version")

// LedgerService is the only component that mutates balance, totalEarned and
// the task counters. Every accepted event commits the user update and the
// append-only task record atomically.
type LedgerService struct {
	db  *gorm.DB
	now func() time.Time

	// called between the user read and the guarded update; tests use it to
	// force version conflicts
	beforeWrite func(tx *gorm.DB, user *models.User) error
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db, now: time.Now}
}

// EarningResult is the committed outcome of an accepted earning event.
type EarningResult struct {
	User  *models.User
	Event *models.TaskEvent
}

// ApplyEarning validates an earning event against freshly read state and, if
// accepted, credits the reward and appends the event record in one
// transaction. Fixed-reward types (AD, TG_JOIN, CHECKIN) ignore the points
// argument; referral types credit exactly the points given.
func (s *LedgerService) ApplyEarning(ctx context.Context, userID uint, eventType models.EventType, reference string, points decimal.Decimal, meta models.EventMeta) (*EarningResult, error) {
	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: %q", ledger.ErrUnknownEventType, eventType)
	}

	var result *EarningResult

	for attempt := 0; attempt < casAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var txErr error
			result, txErr = s.applyEarningTx(tx, userID, eventType, reference, points, meta)
			return txErr
		})

		if errors.Is(err, errCASConflict) {
			logger.Log.Debug("Ledger write conflicted, retrying",
				zap.Uint("user_id", userID),
				zap.String("event_type", string(eventType)),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, ledger.ErrConflict
}

// CompleteAd credits one watched ad, re-running the rate limiter against the
// stored counters inside the transaction.
func (s *LedgerService) CompleteAd(ctx context.Context, userID uint) (*EarningResult, error) {
	reference := "ad-" + uuid.NewString()
	return s.ApplyEarning(ctx, userID, models.EventAd, reference, decimal.Zero, models.EventMeta{
		"ad_provider": "monetag",
	})
}

// CompleteChannelJoin credits a verified channel join exactly once per
// (user, channel) pair.
func (s *LedgerService) CompleteChannelJoin(ctx context.Context, userID uint, channelRef string) (*EarningResult, error) {
	return s.ApplyEarning(ctx, userID, models.EventChannelJoin, channelRef, decimal.Zero, models.EventMeta{
		"channel_link": channelRef,
	})
}

// ClaimCheckin claims the daily check-in, re-deriving claimability from the
// stored streak state inside the transaction.
func (s *LedgerService) ClaimCheckin(ctx context.Context, userID uint) (*EarningResult, error) {
	return s.ApplyEarning(ctx, userID, models.EventCheckin, "", decimal.Zero, nil)
}

// applyEarningTx is a single attempt running inside tx. It returns
// errCASConflict when the optimistic guard fails so the caller can retry with
// fresh state.
func (s *LedgerService) applyEarningTx(tx *gorm.DB, userID uint, eventType models.EventType, reference string, points decimal.Decimal, meta models.EventMeta) (*EarningResult, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	if meta == nil {
		meta = models.EventMeta{}
	}

	updates := map[string]interface{}{
		"total_tasks_completed": user.TotalTasksCompleted + 1,
		"version":               user.Version + 1,
		"updated_at":            now,
	}

	switch eventType {
	case models.EventAd:
		decision := ledger.EvaluateAdWindow(ledger.AdWindow{
			DailyCount:      user.AdsDailyCount,
			LastDailyReset:  user.AdsLastDailyReset,
			HourlyCount:     user.AdsHourlyCount,
			LastHourlyReset: user.AdsLastHourlyReset,
		}, now)
		if !decision.Allowed {
			return nil, decision.Reason
		}

		points = ledger.AdReward
		updates["ads_daily_count"] = decision.DailyCount + 1
		updates["ads_hourly_count"] = decision.HourlyCount + 1
		if decision.ResetDaily {
			updates["ads_last_daily_reset"] = now
		}
		if decision.ResetHourly {
			updates["ads_last_hourly_reset"] = now
		}
		updates["total_ads_completed"] = user.TotalAdsCompleted + 1
		meta["daily_count_after"] = decision.DailyCount + 1
		meta["hourly_count_after"] = decision.HourlyCount + 1

	case models.EventChannelJoin:
		if reference == "" {
			return nil, fmt.Errorf("%w: channel reference required", ledger.ErrUnknownEventType)
		}

		var existing int64
		if err := tx.Model(&models.ChannelCompletion{}).
			Where("user_id = ? AND channel_ref = ?", user.ID, reference).
			Count(&existing).Error; err != nil {
			return nil, err
		}
		if existing > 0 {
			return nil, ledger.ErrAlreadyCompleted
		}

		points = ledger.ChannelJoinReward
		updates["total_channels_completed"] = user.TotalChannelsCompleted + 1

	case models.EventCheckin:
		decision := ledger.EvaluateStreak(user.LastCheckinAt, user.StreakDay, now)
		if decision.Anomaly {
			logger.Log.Warn("Stored check-in is ahead of server clock",
				zap.Uint("user_id", user.ID),
				zap.Timep("last_checkin_at", user.LastCheckinAt))
		}
		if !decision.Claimable {
			return nil, ledger.ErrAlreadyClaimed
		}

		points = decision.Reward
		reference = fmt.Sprintf("Day %d", decision.NewStreakDay)
		updates["streak_day"] = decision.NewStreakDay
		updates["last_checkin_at"] = now
		updates["total_checkins_completed"] = user.TotalCheckinsCompleted + 1
		meta["previous_streak"] = user.StreakDay

	case models.EventReferralCredit:
		updates["referrals_count"] = user.ReferralsCount + 1

	case models.EventReferralBonusReceived:
		// Additive only; one-time flags are enforced by the referral engine.
	}

	if points.IsNegative() {
		return nil, fmt.Errorf("reward points must not be negative, got %s", points)
	}

	updates["balance"] = user.Balance.Add(points)
	updates["total_earned"] = user.TotalEarned.Add(points)

	if s.beforeWrite != nil {
		if err := s.beforeWrite(tx, &user); err != nil {
			return nil, err
		}
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errCASConflict
	}

	if eventType == models.EventChannelJoin {
		// Unique (user_id, channel_ref) backstops the dedup check above when
		// two completions of the same reference race.
		completion := models.ChannelCompletion{UserID: user.ID, ChannelRef: reference, CreatedAt: now}
		if err := tx.Create(&completion).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ledger.ErrAlreadyCompleted
			}
			return nil, err
		}
	}

	event := models.TaskEvent{
		UserID:       user.ID,
		Type:         eventType,
		Reference:    reference,
		RewardPoints: points,
		Status:       models.EventStatusCompleted,
		Meta:         meta,
		CreatedAt:    now,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to append task event: %w", err)
	}

	if err := tx.First(&user, user.ID).Error; err != nil {
		return nil, err
	}

	logger.Log.Info("Earning applied",
		zap.Uint("user_id", user.ID),
		zap.String("event_type", string(eventType)),
		zap.String("reference", reference),
		zap.String("reward", points.String()),
		zap.String("balance", user.Balance.String()))

	return &EarningResult{User: &user, Event: &event}, nil
}

// GetUserTasks returns the user's completed events, newest first.
func (s *LedgerService) GetUserTasks(ctx context.Context, userID uint, limit int) ([]models.TaskEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var events []models.TaskEvent
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.EventStatusCompleted).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// AdStatus computes the advisory rate-limit hint for the UI. The transaction
// in CompleteAd is the authority; this result may be stale by the time an ad
// finishes.
func (s *LedgerService) AdStatus(ctx context.Context, userID uint) (*ledger.AdDecision, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrUserNotFound
		}
		return nil, err
	}

	decision := ledger.EvaluateAdWindow(ledger.AdWindow{
		DailyCount:      user.AdsDailyCount,
		LastDailyReset:  user.AdsLastDailyReset,
		HourlyCount:     user.AdsHourlyCount,
		LastHourlyReset: user.AdsLastHourlyReset,
	}, s.now())

	return &decision, nil
}

// CheckinStatus computes the advisory streak preview for the UI.
func (s *LedgerService) CheckinStatus(ctx context.Context, userID uint) (*ledger.StreakDecision, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrUserNotFound
		}
		return nil, err
	}

	decision := ledger.EvaluateStreak(user.LastCheckinAt, user.StreakDay, s.now())
	return &decision, nil
}
