package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Arghadee4102H/ASEarnHub/internal/ledger"
	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
)

// methodTerms fixes the debit amount and estimated USD value per method.
type methodTerms struct {
	amount decimal.Decimal
	usd    decimal.Decimal
}

var withdrawalTerms = map[models.WithdrawalMethod]methodTerms{
	models.MethodBinance:    {amount: decimal.NewFromInt(1320), usd: decimal.NewFromFloat(0.90)},
	models.MethodGooglePlay: {amount: decimal.NewFromInt(710), usd: decimal.NewFromFloat(0.50)},
}

var (
	binancePayIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{16,20}$`)
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// MethodInfo describes one withdrawal option for the UI.
type MethodInfo struct {
	Method       models.WithdrawalMethod `json:"method"`
	AmountPoints decimal.Decimal         `json:"amount_points"`
	EstUSDValue  decimal.Decimal         `json:"est_usd_value"`
}

// WithdrawalMethods lists the available methods with their fixed terms.
func WithdrawalMethods() []MethodInfo {
	return []MethodInfo{
		{Method: models.MethodBinance, AmountPoints: withdrawalTerms[models.MethodBinance].amount, EstUSDValue: withdrawalTerms[models.MethodBinance].usd},
		{Method: models.MethodGooglePlay, AmountPoints: withdrawalTerms[models.MethodGooglePlay].amount, EstUSDValue: withdrawalTerms[models.MethodGooglePlay].usd},
	}
}

// WithdrawalService validates and books manual-review payout requests. The
// debit and the PENDING record commit together or not at all; later status
// transitions belong to the admin collaborator.
type WithdrawalService struct {
	db  *gorm.DB
	now func() time.Time

	// called between the debit and the record insert; tests use it to force
	// the partial-failure path
	beforeCreate func(tx *gorm.DB) error
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(db *gorm.DB) *WithdrawalService {
	return &WithdrawalService{db: db, now: time.Now}
}

// ValidateRecipient checks the recipient format for the method without
// touching the ledger.
func ValidateRecipient(method models.WithdrawalMethod, recipient string) error {
	switch method {
	case models.MethodBinance:
		if !binancePayIDPattern.MatchString(recipient) {
			return ledger.ErrInvalidRecipient
		}
	case models.MethodGooglePlay:
		if !emailPattern.MatchString(recipient) {
			return ledger.ErrInvalidRecipient
		}
	default:
		return ledger.ErrInvalidRecipient
	}
	return nil
}

// RequestWithdrawal debits the fixed amount for the method and creates the
// PENDING request in one transaction.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID uint, method models.WithdrawalMethod, recipient string) (*models.Withdrawal, error) {
	terms, ok := withdrawalTerms[method]
	if !ok {
		return nil, ledger.ErrInvalidRecipient
	}

	if err := ValidateRecipient(method, recipient); err != nil {
		return nil, err
	}

	var withdrawal *models.Withdrawal

	for attempt := 0; attempt < casAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ledger.ErrUserNotFound
				}
				return err
			}

			if user.Balance.LessThan(terms.amount) {
				return ledger.ErrInsufficientBalance
			}

			now := s.now()
			res := tx.Model(&models.User{}).
				Where("id = ? AND version = ?", user.ID, user.Version).
				Updates(map[string]interface{}{
					"balance":    user.Balance.Sub(terms.amount),
					"version":    user.Version + 1,
					"updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errCASConflict
			}

			if s.beforeCreate != nil {
				if err := s.beforeCreate(tx); err != nil {
					return err
				}
			}

			w := models.Withdrawal{
				ExternalID:   uuid.NewString(),
				UserID:       user.ID,
				Username:     user.Username,
				DisplayName:  user.DisplayName,
				Method:       method,
				AmountPoints: terms.amount,
				EstUSDValue:  terms.usd,
				Recipient:    recipient,
				Status:       models.WithdrawalPending,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Create(&w).Error; err != nil {
				return err
			}

			withdrawal = &w
			return nil
		})

		if errors.Is(err, errCASConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Log.Info("Withdrawal requested",
			zap.Uint("user_id", userID),
			zap.String("method", string(method)),
			zap.String("amount", withdrawal.AmountPoints.String()))
		return withdrawal, nil
	}

	return nil, ledger.ErrConflict
}

// GetUserWithdrawals returns the user's requests, newest first.
func (s *WithdrawalService) GetUserWithdrawals(ctx context.Context, userID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	return withdrawals, nil
}
