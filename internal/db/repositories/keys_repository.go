package repositories

import (
	"context"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/models/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

func (r *KeysRepo) GetStatus(ctx context.Context, key string) (*entities.ApiKey, error) {
	var keyRes entities.ApiKey

	err := r.db.QueryRowxContext(ctx, constants.GetStatusByApiKey, key).StructScan(&keyRes)

	if err != nil {
		return nil, err
	}

	return &keyRes, nil
}

// Create issues a new key for a scanner device and returns its row id.
func (r *KeysRepo) Create(ctx context.Context, key, label, userID string) (string, error) {
	var id string
	err := r.db.QueryRowxContext(ctx, constants.InsertApiKey, uuid.NewString(), key, label, userID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Revoke disables a key. Lookups treat revoked keys as absent.
func (r *KeysRepo) Revoke(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, constants.RevokeApiKey, key)
	return err
}
