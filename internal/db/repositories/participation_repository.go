package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-collective/agora/internal/domain"
	gormModels "campus-collective/agora/internal/models/gorm"
)

type ParticipationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository creates a new GORM-based participation repository
func NewParticipationRepository(db *gorm.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

// JoinAtomic inserts a participation only while the active-participant count
// is below capacity. The capacity check and the insert are one statement, so
// two racing joins can never both land on the last seat; the partial unique
// index backs up the at-most-one-active rule for the same pair.
func (r *ParticipationRepository) JoinAtomic(ctx context.Context, eventID, userID string, totalSeats int) (string, error) {
	id := uuid.NewString()
	now := time.Now()

	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO participations (id, event_id, user_id, is_active, is_confirmed, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?
		 WHERE (SELECT COUNT(*) FROM participations WHERE event_id = ? AND is_active) < ?`,
		id, eventID, userID, true, false, now, now,
		eventID, totalSeats,
	)

	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return "", domain.Reject(domain.ReasonAlreadyJoined)
		}
		return "", domain.Transient("join event", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", domain.Reject(domain.ReasonFull)
	}
	return id, nil
}

// FindActive returns the single active participation for the pair.
func (r *ParticipationRepository) FindActive(ctx context.Context, eventID, userID string) (*gormModels.Participation, error) {
	var p gormModels.Participation

	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND is_active = ?", eventID, userID, true).
		First(&p).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("participation")
		}
		return nil, domain.Transient("fetch participation", err)
	}
	return &p, nil
}

// DeactivateAll flips is_active off on every active row for the pair. More
// than one row should be unreachable given the unique index, but leaving
// sweeps them all regardless.
func (r *ParticipationRepository) DeactivateAll(ctx context.Context, eventID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Participation{}).
		Where("event_id = ? AND user_id = ? AND is_active = ?", eventID, userID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})

	if res.Error != nil {
		return 0, domain.Transient("leave event", res.Error)
	}
	return res.RowsAffected, nil
}

// ConfirmActive marks attendance confirmed, re-checking is_active and
// is_confirmed inside the write so a racing leave or second verify loses
// cleanly (zero rows) instead of half-applying.
func (r *ParticipationRepository) ConfirmActive(ctx context.Context, eventID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Participation{}).
		Where("event_id = ? AND user_id = ? AND is_active = ? AND is_confirmed = ?", eventID, userID, true, false).
		Updates(map[string]interface{}{
			"is_confirmed": true,
			"updated_at":   time.Now(),
		})

	if res.Error != nil {
		return 0, domain.Transient("confirm attendance", res.Error)
	}
	return res.RowsAffected, nil
}

// CountActive counts current participants for an event.
func (r *ParticipationRepository) CountActive(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Participation{}).
		Where("event_id = ? AND is_active = ?", eventID, true).
		Count(&count).Error
	if err != nil {
		return 0, domain.Transient("count participants", err)
	}
	return count, nil
}

// ListForUser returns a user's participations, newest first, with events
// preloaded. activeOnly limits to current joins.
func (r *ParticipationRepository) ListForUser(ctx context.Context, userID string, activeOnly bool) ([]gormModels.Participation, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Event")

	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var out []gormModels.Participation
	if err := q.Find(&out).Error; err != nil {
		return nil, domain.Transient("list participations", err)
	}
	return out, nil
}

// isUniqueViolation matches both the Postgres and SQLite spellings of a
// unique-index failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique")
}
