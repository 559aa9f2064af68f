package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/domain"
	"campus-collective/agora/internal/metrics"
	"campus-collective/agora/internal/models/dtos"
	gormModels "campus-collective/agora/internal/models/gorm"
)

const typeCacheTTL = 5 * time.Minute

// EventTypeService resolves category names and serves the public type list.
// Resolution is read-through cached; the taxonomy itself only changes via
// seeding, so there is no write path to invalidate.
type EventTypeService struct {
	typeRepo *repositories.EventTypeRepository
	userRepo *repositories.UserRepositoryGORM
	cache    common.CacheInterface
	metrics  *metrics.MetricsRegistry
}

// NewEventTypeService creates a new event type service
func NewEventTypeService(
	typeRepo *repositories.EventTypeRepository,
	userRepo *repositories.UserRepositoryGORM,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) *EventTypeService {
	return &EventTypeService{
		typeRepo: typeRepo,
		userRepo: userRepo,
		cache:    cache,
		metrics:  metricsReg,
	}
}

// ResolveNames maps category names onto type rows, case-insensitively, and
// pulls in each match's direct children so filtering on "Sports" also finds
// "Football". Unknown names simply resolve to nothing.
func (s *EventTypeService) ResolveNames(ctx context.Context, names []string) ([]gormModels.EventType, error) {
	if len(names) == 0 {
		return nil, nil
	}

	key := resolveCacheKey(names)
	if val, found := s.cache.Get(key); found {
		if types, ok := val.([]gormModels.EventType); ok {
			s.countCache("type_resolve", true)
			return types, nil
		}
	}
	s.countCache("type_resolve", false)

	types, err := s.typeRepo.FindByNamesWithChildren(ctx, names)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, types, typeCacheTTL)
	return types, nil
}

// ListTypes returns the full taxonomy, roots before children.
func (s *EventTypeService) ListTypes(ctx context.Context) ([]dtos.EventTypeResponse, error) {
	key := string(constants.CachePrefixEventTypes) + "all"
	if val, found := s.cache.Get(key); found {
		if resp, ok := val.([]dtos.EventTypeResponse); ok {
			s.countCache("event_types", true)
			return resp, nil
		}
	}
	s.countCache("event_types", false)

	types, err := s.typeRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dtos.EventTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, dtos.EventTypeResponse{
			ID:       t.ID,
			Name:     t.Name,
			ParentID: t.ParentID,
		})
	}

	s.cache.Set(key, resp, typeCacheTTL)
	return resp, nil
}

// ReplaceUserInterests swaps the caller's interested-type set. Ids that do
// not exist are dropped; an empty set clears the interests.
func (s *EventTypeService) ReplaceUserInterests(ctx context.Context, userID string, typeIDs []string) ([]dtos.EventTypeResponse, error) {
	var types []gormModels.EventType

	if len(typeIDs) > 0 {
		found, err := s.typeRepo.FindByIDs(ctx, typeIDs)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, domain.Reject(domain.ReasonNoEventTypes)
		}
		types = found
	}

	if err := s.userRepo.ReplaceInterests(ctx, userID, types); err != nil {
		return nil, err
	}

	resp := make([]dtos.EventTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, dtos.EventTypeResponse{ID: t.ID, Name: t.Name, ParentID: t.ParentID})
	}
	return resp, nil
}

func (s *EventTypeService) countCache(pattern string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}

// resolveCacheKey is stable under name order and casing.
func resolveCacheKey(names []string) string {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(n)))
	}
	sort.Strings(lowered)
	return string(constants.CachePrefixTypeResolve) + strings.Join(lowered, ",")
}
