package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EventType is the closed set of earning event kinds. ApplyEarning rejects any
// value outside this set instead of silently mis-summing it.
type EventType string

const (
	EventAd                    EventType = "AD"
	EventChannelJoin           EventType = "TG_JOIN"
	EventCheckin               EventType = "CHECKIN"
	EventReferralBonusReceived EventType = "REFERRAL_BONUS_RECEIVED"
	EventReferralCredit        EventType = "REFERRAL_CREDIT"
)

// Valid reports whether t is one of the known event kinds.
func (t EventType) Valid() bool {
	switch t {
	case EventAd, EventChannelJoin, EventCheckin, EventReferralBonusReceived, EventReferralCredit:
		return true
	}
	return false
}

// EventStatus for task events. The ledger only ever writes COMPLETED.
const EventStatusCompleted = "COMPLETED"

// EventMeta is an opaque provenance bag stored as JSON.
type EventMeta map[string]any

// Value implements driver.Valuer.
func (m EventMeta) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *EventMeta) Scan(value any) error {
	if value == nil {
		*m = EventMeta{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported meta column type %T", value)
}

// TaskEvent is the append-only record of one accepted earning event. Rows are
// written inside the same transaction that mutates the user record and are
// immutable afterwards.
type TaskEvent struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index:idx_task_user_created" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type         EventType       `gorm:"size:32;not null;index:idx_task_type_ref" json:"type"`
	Reference    string          `gorm:"size:255;not null;index:idx_task_type_ref" json:"reference"`
	RewardPoints decimal.Decimal `gorm:"type:decimal(12,1);not null" json:"reward_points"`
	Status       string          `gorm:"size:20;not null;default:COMPLETED" json:"status"`
	Meta         EventMeta       `gorm:"type:text" json:"meta"`
	CreatedAt    time.Time       `gorm:"index:idx_task_user_created" json:"created_at"`
}

// TableName specifies the table name for TaskEvent model
func (TaskEvent) TableName() string {
	return "tasks"
}
