package entities

import "time"

// ApiKey identifies a scanner kiosk or service integration. Keys act with
// the plain user role and a fixed device user id.
type ApiKey struct {
	ID        string    `db:"id"`
	Key       string    `db:"key"`
	Label     string    `db:"label"`
	UserID    string    `db:"user_id"`
	Status    bool      `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
