package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/models"
)

// AuditService re-derives each balance from the event and withdrawal records.
// For every user, balance must equal the sum of COMPLETED event rewards minus
// all PENDING or SUCCESSFUL withdrawal amounts.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditService
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Drift is a user whose stored balance disagrees with the derived one.
type Drift struct {
	UserID  uint
	Stored  decimal.Decimal
	Derived decimal.Decimal
}

// AuditUser derives the expected balance for one user and returns the drift
// (stored minus derived). Zero drift means the invariant holds.
func (s *AuditService) AuditUser(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return decimal.Zero, err
	}

	derived, err := s.deriveBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return user.Balance.Sub(derived), nil
}

// AuditAll scans every user and reports those with non-zero drift.
func (s *AuditService) AuditAll(ctx context.Context) ([]Drift, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Select("id", "balance").Find(&users).Error; err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, u := range users {
		derived, err := s.deriveBalance(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if !u.Balance.Equal(derived) {
			drifts = append(drifts, Drift{UserID: u.ID, Stored: u.Balance, Derived: derived})
			logger.Log.Error("Balance drift detected",
				zap.Uint("user_id", u.ID),
				zap.String("stored", u.Balance.String()),
				zap.String("derived", derived.String()))
		}
	}

	return drifts, nil
}

func (s *AuditService) deriveBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var earned, withdrawn decimal.NullDecimal

	if err := s.db.WithContext(ctx).Model(&models.TaskEvent{}).
		Where("user_id = ? AND status = ?", userID, models.EventStatusCompleted).
		Select("SUM(reward_points)").
		Scan(&earned).Error; err != nil {
		return decimal.Zero, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Withdrawal{}).
		Where("user_id = ? AND status IN ?", userID, []string{models.WithdrawalPending, models.WithdrawalSuccessful}).
		Select("SUM(amount_points)").
		Scan(&withdrawn).Error; err != nil {
		return decimal.Zero, err
	}

	return earned.Decimal.Sub(withdrawn.Decimal), nil
}
