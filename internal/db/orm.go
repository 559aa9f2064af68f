package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	gormModels "campus-collective/agora/internal/models/gorm"
)

var PgDB *gorm.DB

func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	PgDB = db
	log.Println("Connected to Postgres via GORM")
	return db, nil
}

// Migrate creates or updates the schema. AutoMigrate covers the tables; the
// partial unique index guarding "one active participation per (user,event)"
// needs raw DDL because GORM tags cannot express a WHERE clause.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&gormModels.User{},
		&gormModels.EventType{},
		&gormModels.Event{},
		&gormModels.Participation{},
		&gormModels.ActivityLedgerEntry{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Postgres and SQLite share this partial-index syntax.
	err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_participations_one_active
		 ON participations (event_id, user_id) WHERE is_active`,
	).Error
	if err != nil {
		return fmt.Errorf("create partial unique index: %w", err)
	}

	// api_keys is owned by the sqlx repo, not a GORM model; ids are
	// assigned by the key generator.
	err = db.Exec(
		`CREATE TABLE IF NOT EXISTS api_keys (
		 id TEXT PRIMARY KEY,
		 key TEXT NOT NULL UNIQUE,
		 label TEXT NOT NULL DEFAULT '',
		 user_id TEXT NOT NULL,
		 status BOOLEAN NOT NULL DEFAULT TRUE,
		 created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	).Error
	if err != nil {
		return fmt.Errorf("create api_keys table: %w", err)
	}
	return nil
}
