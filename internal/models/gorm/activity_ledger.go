package gorm

import (
	"time"
)

// ActivityLedgerEntry credits hours to a user for a confirmed attendance.
// One entry per (user, event): duplicate queue deliveries must not double
// credit, so the pair carries a unique index.
type ActivityLedgerEntry struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_ledger_user_event"`
	EventID   string    `gorm:"column:event_id;type:uuid;not null;uniqueIndex:uq_ledger_user_event"`
	Hours     float64   `gorm:"column:hours;not null"`
	Source    string    `gorm:"column:source;default:qr_verification"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ActivityLedgerEntry) TableName() string {
	return "activity_ledger"
}
