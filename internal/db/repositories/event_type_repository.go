package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"campus-collective/agora/internal/domain"
	gormModels "campus-collective/agora/internal/models/gorm"
)

type EventTypeRepository struct {
	db *gorm.DB
}

// NewEventTypeRepository creates a new GORM-based event type repository
func NewEventTypeRepository(db *gorm.DB) *EventTypeRepository {
	return &EventTypeRepository{db: db}
}

// FindByNamesWithChildren resolves type names case-insensitively and expands
// each match by its direct children. The hierarchy is one level deep, so
// children never pull in their own descendants or parents.
func (r *EventTypeRepository) FindByNamesWithChildren(ctx context.Context, names []string) ([]gormModels.EventType, error) {
	if len(names) == 0 {
		return nil, nil
	}

	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(n)))
	}

	var matched []gormModels.EventType
	err := r.db.WithContext(ctx).
		Where("LOWER(name) IN (?)", lowered).
		Find(&matched).Error
	if err != nil {
		return nil, domain.Transient("resolve event types", err)
	}
	if len(matched) == 0 {
		return nil, nil
	}

	parentIDs := make([]string, 0, len(matched))
	for _, t := range matched {
		parentIDs = append(parentIDs, t.ID)
	}

	var children []gormModels.EventType
	err = r.db.WithContext(ctx).
		Where("parent_id IN (?)", parentIDs).
		Find(&children).Error
	if err != nil {
		return nil, domain.Transient("expand event types", err)
	}

	seen := make(map[string]bool, len(matched)+len(children))
	all := make([]gormModels.EventType, 0, len(matched)+len(children))
	for _, t := range append(matched, children...) {
		if !seen[t.ID] {
			seen[t.ID] = true
			all = append(all, t)
		}
	}
	return all, nil
}

// ListAll returns every type, parents before children, alphabetical within
// each level.
func (r *EventTypeRepository) ListAll(ctx context.Context) ([]gormModels.EventType, error) {
	var types []gormModels.EventType
	err := r.db.WithContext(ctx).
		Order("parent_id IS NOT NULL").
		Order("name ASC").
		Find(&types).Error
	if err != nil {
		return nil, domain.Transient("list event types", err)
	}
	return types, nil
}

// FindByIDs loads the given types, skipping unknown ids.
func (r *EventTypeRepository) FindByIDs(ctx context.Context, ids []string) ([]gormModels.EventType, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var types []gormModels.EventType
	err := r.db.WithContext(ctx).
		Where("id IN (?)", ids).
		Find(&types).Error
	if err != nil {
		return nil, domain.Transient("fetch event types", err)
	}
	return types, nil
}
