package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Arghadee4102H/ASEarnHub/internal/ledger"
	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
)

// MilestonePolicy decides when a referred user's activity unlocks the
// referrer bonus. RequireBoth switches the connective between the channel-join
// and ad-view conditions.
type MilestonePolicy struct {
	RequireBoth bool
}

// ReferralService manages one-time code redemption and the deferred referrer
// credit. Both one-way flags are guarded inside the transaction that grants
// the corresponding bonus.
type ReferralService struct {
	db       *gorm.DB
	ledgerSv *LedgerService
	policy   MilestonePolicy
}

// NewReferralService creates a new ReferralService
func NewReferralService(db *gorm.DB, ledgerSv *LedgerService, policy MilestonePolicy) *ReferralService {
	return &ReferralService{db: db, ledgerSv: ledgerSv, policy: policy}
}

// SubmitReferralCode binds the caller to the code's owner exactly once and
// credits the referred-user bonus. The first successful submission is
// permanent; later calls fail regardless of code validity.
func (s *ReferralService) SubmitReferralCode(ctx context.Context, userID uint, code string) (*models.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ledger.ErrEmptyCode
	}

	var result *models.User

	for attempt := 0; attempt < casAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ledger.ErrUserNotFound
				}
				return err
			}

			if user.ReferralEntryCompleted || user.ReferredByID != nil {
				return ledger.ErrAlreadyUsed
			}
			if code == user.ReferralCode {
				return ledger.ErrSelfReferral
			}

			var referrer models.User
			if err := tx.Where("referral_code = ?", code).First(&referrer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ledger.ErrInvalidCode
				}
				return err
			}
			if referrer.ID == user.ID {
				return ledger.ErrSelfReferral
			}

			res := tx.Model(&models.User{}).
				Where("id = ? AND version = ? AND referral_entry_completed = ?", user.ID, user.Version, false).
				Updates(map[string]interface{}{
					"referred_by_id":           referrer.ID,
					"referral_entry_completed": true,
					"version":                  user.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errCASConflict
			}

			earned, err := s.ledgerSv.applyEarningTx(tx, user.ID,
				models.EventReferralBonusReceived,
				fmt.Sprintf("Referred by %d", referrer.TelegramID),
				ledger.ReferredUserBonus,
				models.EventMeta{"referrer_id": referrer.ID, "is_referrer_bonus": false})
			if err != nil {
				return err
			}

			result = earned.User
			return nil
		})

		if errors.Is(err, errCASConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Log.Info("Referral code applied",
			zap.Uint("user_id", userID),
			zap.String("code", code))

		// The referee may already have crossed the milestone before entering
		// a code; evaluate immediately.
		if err := s.CheckAndCreditReferrer(ctx, userID); err != nil {
			logger.Log.Error("Referrer credit evaluation failed", zap.Uint("user_id", userID), zap.Error(err))
		}

		return result, nil
	}

	return nil, ledger.ErrConflict
}

// CheckAndCreditReferrer credits the referrer bonus exactly once when the
// referred user has crossed the milestone. Safe to call after every task
// completion; the referee's one-way flag is the single source of truth and is
// flipped in the same transaction that pays the bonus.
func (s *ReferralService) CheckAndCreditReferrer(ctx context.Context, refereeID uint) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var referee models.User
			if err := tx.First(&referee, refereeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ledger.ErrUserNotFound
				}
				return err
			}

			if referee.ReferredByID == nil || referee.ReferredBonusGiven {
				return nil
			}

			met, err := s.milestoneMet(tx, &referee)
			if err != nil {
				return err
			}
			if !met {
				return nil
			}

			res := tx.Model(&models.User{}).
				Where("id = ? AND version = ? AND referred_bonus_given = ?", referee.ID, referee.Version, false).
				Updates(map[string]interface{}{
					"referred_bonus_given": true,
					"version":              referee.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errCASConflict
			}

			_, err = s.ledgerSv.applyEarningTx(tx, *referee.ReferredByID,
				models.EventReferralCredit,
				fmt.Sprintf("Referred user %d", referee.TelegramID),
				ledger.ReferrerBonus,
				models.EventMeta{"referred_user_id": referee.ID, "is_referrer_bonus": true})
			if err != nil {
				return err
			}

			logger.Log.Info("Referrer credited",
				zap.Uint("referrer_id", *referee.ReferredByID),
				zap.Uint("referee_id", referee.ID))
			return nil
		})

		if errors.Is(err, errCASConflict) {
			continue
		}
		return err
	}

	return ledger.ErrConflict
}

// milestoneMet evaluates the policy against the referee's completions using
// the same transaction's view of the data.
func (s *ReferralService) milestoneMet(tx *gorm.DB, referee *models.User) (bool, error) {
	var joins int64
	if err := tx.Model(&models.ChannelCompletion{}).
		Where("user_id = ?", referee.ID).
		Count(&joins).Error; err != nil {
		return false, err
	}

	joinsMet := joins >= ledger.MilestoneChannelJoins
	adsMet := referee.TotalAdsCompleted >= ledger.MilestoneAdViews

	if s.policy.RequireBoth {
		return joinsMet && adsMet, nil
	}
	return joinsMet || adsMet, nil
}
