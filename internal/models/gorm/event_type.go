package gorm

import (
	"time"
)

// EventType is a category. The hierarchy is one level deep: a type may have
// a parent, and filtering by a parent name pulls in its direct children.
type EventType struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	ParentID  *string   `gorm:"column:parent_id;type:uuid;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Children []EventType `gorm:"foreignKey:ParentID"`
}

// TableName specifies the table name for GORM
func (EventType) TableName() string {
	return "event_types"
}
