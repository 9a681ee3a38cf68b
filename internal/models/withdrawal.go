package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalMethod fixes the points amount and the estimated USD value.
type WithdrawalMethod string

const (
	MethodBinance    WithdrawalMethod = "BINANCE"
	MethodGooglePlay WithdrawalMethod = "GOOGLE_PLAY"
)

// Withdrawal statuses. The ledger only ever writes PENDING; the admin
// collaborator moves requests to SUCCESSFUL or REJECTED out of band.
const (
	WithdrawalPending    = "PENDING"
	WithdrawalSuccessful = "SUCCESSFUL"
	WithdrawalRejected   = "REJECTED"
)

// Withdrawal is a manual-review payout request. The balance debit and this
// row are committed by one transaction; neither exists without the other.
type Withdrawal struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	ExternalID   string           `gorm:"uniqueIndex;size:36;not null" json:"external_id"`
	UserID       uint             `gorm:"not null;index:idx_withdrawal_user_created" json:"user_id"`
	User         *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Username     string           `gorm:"size:64" json:"username"`
	DisplayName  string           `gorm:"size:128" json:"display_name"`
	Method       WithdrawalMethod `gorm:"size:20;not null" json:"method"`
	AmountPoints decimal.Decimal  `gorm:"type:decimal(12,1);not null" json:"amount_points"`
	EstUSDValue  decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"est_usd_value"`
	Recipient    string           `gorm:"size:255;not null" json:"recipient"`
	Status       string           `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	AdminNote    string           `gorm:"type:text" json:"admin_note"`
	CreatedAt    time.Time        `gorm:"index:idx_withdrawal_user_created" json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Withdrawal model
func (Withdrawal) TableName() string {
	return "withdrawals"
}
