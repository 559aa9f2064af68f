package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/domain"
	gormModels "campus-collective/agora/internal/models/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// GetByID retrieves a user without relationships.
func (r *UserRepositoryGORM) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user")
		}
		return nil, domain.Transient("fetch user", err)
	}
	return &user, nil
}

// GetWithInterests retrieves a user with interested types preloaded.
func (r *UserRepositoryGORM) GetWithInterests(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Preload("InterestedTypes").
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user")
		}
		return nil, domain.Transient("fetch user with interests", err)
	}
	return &user, nil
}

// EnsureExists inserts the identity-provider projection on first sight. The
// row is written once; later requests hit the conflict clause and change
// nothing, so claims drift never overwrites local role management.
func (r *UserRepositoryGORM) EnsureExists(ctx context.Context, id, displayName string, role constants.UserRole) error {
	user := gormModels.User{
		ID:          id,
		DisplayName: displayName,
		Role:        role,
		IsActive:    true,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return domain.Transient("ensure user", err)
	}
	return nil
}

// InterestedTypeIDs returns the ids of the user's interested types.
func (r *UserRepositoryGORM) InterestedTypeIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("user_interested_types").
		Where("user_id = ?", userID).
		Pluck("event_type_id", &ids).Error
	if err != nil {
		return nil, domain.Transient("fetch user interests", err)
	}
	return ids, nil
}

// ReplaceInterests swaps the user's interested-type set.
func (r *UserRepositoryGORM) ReplaceInterests(ctx context.Context, userID string, types []gormModels.EventType) error {
	user := gormModels.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&user).Association("InterestedTypes").Replace(types)
	if err != nil {
		return domain.Transient("replace user interests", err)
	}
	return nil
}
