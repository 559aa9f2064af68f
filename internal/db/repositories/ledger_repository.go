package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-collective/agora/internal/domain"
	gormModels "campus-collective/agora/internal/models/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new GORM-based activity ledger repository
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Credit writes one ledger entry per (user, event). Redelivered queue items
// hit the conflict clause and report created=false instead of double
// crediting.
func (r *LedgerRepository) Credit(ctx context.Context, userID, eventID string, hours float64) (bool, error) {
	entry := gormModels.ActivityLedgerEntry{
		ID:      uuid.NewString(),
		UserID:  userID,
		EventID: eventID,
		Hours:   hours,
		Source:  "qr_verification",
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry)
	if res.Error != nil {
		return false, domain.Transient("credit activity hours", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// TotalHours sums a user's credited hours.
func (r *LedgerRepository) TotalHours(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&gormModels.ActivityLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, domain.Transient("sum activity hours", err)
	}
	return total, nil
}
