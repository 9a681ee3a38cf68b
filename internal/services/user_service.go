package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Arghadee4102H/ASEarnHub/internal/auth"
	"github.com/Arghadee4102H/ASEarnHub/internal/ledger"
	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
	"github.com/Arghadee4102H/ASEarnHub/internal/utils"
)

// UserService handles identity sync and user queries. Creation is lazy and
// idempotent: the first contact creates the record, every later contact only
// re-syncs the mutable profile fields.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetOrCreateFromWebApp finds the user by Telegram id or creates the record,
// re-syncing username and display name either way. Profile changes are not
// earning events.
func (s *UserService) GetOrCreateFromWebApp(ctx context.Context, tgUser *auth.WebAppUser) (*models.User, error) {
	var user models.User
	now := time.Now()

	err := s.db.WithContext(ctx).Where("telegram_id = ?", tgUser.ID).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			TelegramID:         tgUser.ID,
			Username:           tgUser.Username,
			DisplayName:        tgUser.DisplayName(),
			ReferralCode:       utils.ReferralCodeForUser(tgUser.Username, tgUser.ID),
			AdsLastDailyReset:  now,
			AdsLastHourlyReset: now,
			LastSeenAt:         now,
		}

		if createErr := s.db.WithContext(ctx).Create(&user).Error; createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				// Either a concurrent first contact won the race on
				// telegram_id, or another user's derived code collides.
				if refetchErr := s.db.WithContext(ctx).Where("telegram_id = ?", tgUser.ID).First(&user).Error; refetchErr == nil {
					return &user, nil
				}
				return s.createWithRandomizedCode(ctx, tgUser, now)
			}
			return nil, createErr
		}

		logger.Log.Info("New user created",
			zap.Int64("telegram_id", tgUser.ID),
			zap.String("referral_code", user.ReferralCode))
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if syncErr := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"username":     tgUser.Username,
		"display_name": tgUser.DisplayName(),
		"last_seen_at": now,
	}).Error; syncErr != nil {
		return nil, syncErr
	}

	return &user, nil
}

func (s *UserService) createWithRandomizedCode(ctx context.Context, tgUser *auth.WebAppUser, now time.Time) (*models.User, error) {
	code, err := utils.RandomizedReferralCode(tgUser.Username, tgUser.ID)
	if err != nil {
		return nil, err
	}

	user := models.User{
		TelegramID:         tgUser.ID,
		Username:           tgUser.Username,
		DisplayName:        tgUser.DisplayName(),
		ReferralCode:       code,
		AdsLastDailyReset:  now,
		AdsLastHourlyReset: now,
		LastSeenAt:         now,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	logger.Log.Info("New user created with randomized referral code",
		zap.Int64("telegram_id", tgUser.ID),
		zap.String("referral_code", user.ReferralCode))
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserReferrals retrieves the users referred by this user, newest first.
func (s *UserService) GetUserReferrals(ctx context.Context, userID uint) ([]models.User, error) {
	var referred []models.User
	if err := s.db.WithContext(ctx).
		Where("referred_by_id = ?", userID).
		Order("created_at DESC").
		Find(&referred).Error; err != nil {
		return nil, err
	}
	return referred, nil
}
