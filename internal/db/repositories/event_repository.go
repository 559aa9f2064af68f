package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-collective/agora/internal/domain"
	gormModels "campus-collective/agora/internal/models/gorm"
)

// SortKey enumerates the list orderings the API accepts. Anything else is a
// client error, never silently defaulted.
type SortKey string

const (
	SortMostRecentlyCreated SortKey = "MostRecentlyCreated"
	SortMostRecentStartDate SortKey = "MostRecentStartDate"
	SortMostParticipants    SortKey = "MostParticipants"
	SortLeastParticipants   SortKey = "LeastParticipants"
)

// ParseSortKey validates a raw sort key from the query string.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortMostRecentlyCreated, SortMostRecentStartDate, SortMostParticipants, SortLeastParticipants:
		return SortKey(s), true
	}
	return "", false
}

// EventFilter narrows a listing. EventTypeIDs must already be expanded to
// include child types (see EventTypeRepository).
type EventFilter struct {
	NameContains       string
	EventTypeIDs       []string
	IncludeDeactivated bool
	Page               int // 1-based
	PageSize           int
}

// EventSort orders a listing. When ActiveFirst is set, active events sort
// before inactive ones ahead of the key ordering.
type EventSort struct {
	Key         SortKey
	ActiveFirst bool
}

// participantCountExpr is the correlated subquery every listing selects so
// counts are derived, never stored.
const participantCountExpr = `(SELECT COUNT(*) FROM participations p WHERE p.event_id = events.id AND p.is_active) AS participant_count`

type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new GORM-based event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create persists a new event. Types must reference existing rows; only the
// join-table entries are written for them.
func (r *EventRepository) Create(ctx context.Context, event *gormModels.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Omit("Types.*").Create(event).Error
	if err != nil {
		return domain.Transient("create event", err)
	}
	return nil
}

// GetByID loads one event with its types and derived participant count.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*gormModels.Event, error) {
	var event gormModels.Event

	err := r.db.WithContext(ctx).
		Select("events.*, "+participantCountExpr).
		Preload("Types").
		Where("events.id = ?", id).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("event")
		}
		return nil, domain.Transient("fetch event", err)
	}
	return &event, nil
}

// Update applies a merge patch of column values. updated_at is stamped even
// when the patch itself is empty.
func (r *EventRepository) Update(ctx context.Context, id string, patch map[string]interface{}) error {
	patch["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ?", id).
		Updates(patch)

	if res.Error != nil {
		return domain.Transient("update event", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("event")
	}
	return nil
}

// ReplaceTypes swaps the event's category set.
func (r *EventRepository) ReplaceTypes(ctx context.Context, eventID string, types []gormModels.EventType) error {
	event := gormModels.Event{ID: eventID}
	err := r.db.WithContext(ctx).Model(&event).Association("Types").Replace(types)
	if err != nil {
		return domain.Transient("replace event types", err)
	}
	return nil
}

// Deactivate retires an event permanently. The WHERE guard makes the write
// race-safe: only one caller observes the flip.
func (r *EventRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ? AND is_deactivated = ?", id, false).
		Updates(map[string]interface{}{
			"is_deactivated": true,
			"is_active":      false,
			"updated_at":     time.Now(),
		})

	if res.Error != nil {
		return false, domain.Transient("deactivate event", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SetQRCodeIfAbsent installs the attendance token pair only when no pair was
// ever stored. Returns whether this caller won the write; losers re-read the
// stored pair.
func (r *EventRepository) SetQRCodeIfAbsent(ctx context.Context, id, code, iv string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("id = ? AND (qr_code_string IS NULL OR qr_code_string = '')", id).
		Updates(map[string]interface{}{
			"qr_code_string": code,
			"qr_code_iv":     iv,
			"updated_at":     time.Now(),
		})

	if res.Error != nil {
		return false, domain.Transient("set qr code", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SweepExpired flips is_active off for every active event whose end time has
// passed. It never touches is_deactivated and re-running it is a no-op.
func (r *EventRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Event{}).
		Where("is_active = ? AND end_time < ?", true, now).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		})

	if res.Error != nil {
		return 0, domain.Transient("sweep expired events", res.Error)
	}
	return res.RowsAffected, nil
}

// List returns one page plus the total count computed with identical filters.
func (r *EventRepository) List(ctx context.Context, filter EventFilter, sort EventSort) ([]gormModels.Event, int64, error) {
	var total int64
	if err := r.applyFilter(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, domain.Transient("count events", err)
	}

	q := r.applyFilter(ctx, filter).
		Select("events.*, " + participantCountExpr)

	if sort.ActiveFirst {
		q = q.Order("is_active DESC")
	}
	switch sort.Key {
	case SortMostRecentlyCreated:
		q = q.Order("created_at DESC")
	case SortMostRecentStartDate:
		q = q.Order("start_time DESC")
	case SortMostParticipants:
		q = q.Order("participant_count DESC").Order("created_at DESC")
	case SortLeastParticipants:
		q = q.Order("participant_count ASC").Order("created_at DESC")
	default:
		return nil, 0, fmt.Errorf("unknown sort key %q", sort.Key)
	}

	var events []gormModels.Event
	err := q.Limit(filter.PageSize).
		Offset(pageOffset(filter.Page, filter.PageSize)).
		Preload("Types").
		Find(&events).Error
	if err != nil {
		return nil, 0, domain.Transient("list events", err)
	}
	return events, total, nil
}

// ListRecommended ranks events whose complete type-set is contained in the
// caller's interested types above everything else, then by recency, then
// active-first. Exclusion and pagination rules match List.
func (r *EventRepository) ListRecommended(ctx context.Context, interestedTypeIDs []string, page, pageSize int) ([]gormModels.Event, int64, error) {
	filter := EventFilter{Page: page, PageSize: pageSize}

	var total int64
	if err := r.applyFilter(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, domain.Transient("count recommended events", err)
	}

	// An event matches when none of its linked types falls outside the
	// interested set; an event with no types is trivially contained.
	matchExpr := "NOT EXISTS (SELECT 1 FROM event_type_links l WHERE l.event_id = events.id)"
	var args []interface{}
	if len(interestedTypeIDs) > 0 {
		matchExpr = "NOT EXISTS (SELECT 1 FROM event_type_links l WHERE l.event_id = events.id AND l.event_type_id NOT IN (?))"
		args = append(args, interestedTypeIDs)
	}

	var events []gormModels.Event
	err := r.applyFilter(ctx, filter).
		Select("events.*, "+participantCountExpr+", CASE WHEN "+matchExpr+" THEN 1 ELSE 0 END AS type_match", args...).
		Order("type_match DESC").
		Order("created_at DESC").
		Order("is_active DESC").
		Limit(pageSize).
		Offset(pageOffset(page, pageSize)).
		Preload("Types").
		Find(&events).Error
	if err != nil {
		return nil, 0, domain.Transient("list recommended events", err)
	}
	return events, total, nil
}

func (r *EventRepository) applyFilter(ctx context.Context, f EventFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&gormModels.Event{})

	if !f.IncludeDeactivated {
		q = q.Where("is_deactivated = ?", false)
	}
	if f.NameContains != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.NameContains)+"%")
	}
	if len(f.EventTypeIDs) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM event_type_links l WHERE l.event_id = events.id AND l.event_type_id IN (?))",
			f.EventTypeIDs,
		)
	}
	return q
}

func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
