package gorm

import (
	"time"

	"campus-collective/agora/internal/constants"
)

// User is the local projection of an identity-provider account. Credentials
// never live here; tokens arrive already issued and we only decode claims.
type User struct {
	ID          string             `gorm:"column:id;primaryKey;type:uuid"`
	DisplayName string             `gorm:"column:display_name"`
	Email       *string            `gorm:"column:email;uniqueIndex"`
	Role        constants.UserRole `gorm:"column:role;type:user_role;default:user"`
	IsActive    bool               `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	InterestedTypes []EventType     `gorm:"many2many:user_interested_types;joinForeignKey:UserID;joinReferences:EventTypeID"`
	Participations  []Participation `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
