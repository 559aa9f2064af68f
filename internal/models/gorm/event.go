package gorm

import (
	"time"
)

type Event struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	Name          string    `gorm:"column:name;not null"`
	Description   string    `gorm:"column:description"`
	ImageURL      string    `gorm:"column:image_url"`
	ActivityHours float64   `gorm:"column:activity_hours;default:0"`
	TotalSeats    int       `gorm:"column:total_seats;not null"`
	StartTime     time.Time `gorm:"column:start_time;not null;index"`
	EndTime       time.Time `gorm:"column:end_time;not null;index"`
	Location      string    `gorm:"column:location"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	IsDeactivated bool      `gorm:"column:is_deactivated;default:false"`
	QRCodeString  *string   `gorm:"column:qr_code_string"`
	QRCodeIV      *string   `gorm:"column:qr_code_iv"`
	CreatedBy     string    `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// ParticipantCount is filled by list queries from a subquery alias; it is
	// never a real column.
	ParticipantCount int64 `gorm:"->;-:migration"`

	// Relationships
	Types []EventType `gorm:"many2many:event_type_links;joinForeignKey:EventID;joinReferences:EventTypeID"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// HasQRCode reports whether the attendance token pair has been issued.
func (e *Event) HasQRCode() bool {
	return e.QRCodeString != nil && *e.QRCodeString != ""
}
