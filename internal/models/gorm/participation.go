package gorm

import (
	"time"
)

// Participation links one user to one event. Rows are never deleted: leaving
// flips IsActive off, so a pair can accumulate historical rows while holding
// at most one active row (enforced by a partial unique index, see Migrate).
type Participation struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	EventID     string    `gorm:"column:event_id;type:uuid;not null;index"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null;index"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	IsConfirmed bool      `gorm:"column:is_confirmed;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Event Event `gorm:"foreignKey:EventID"`
	User  User  `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Participation) TableName() string {
	return "participations"
}
