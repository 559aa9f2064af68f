package constants

const (
	GetStatusByApiKey = `
	SELECT id, key, label, user_id, status, created_at FROM api_keys WHERE key = $1
	`

	InsertApiKey = `
	INSERT INTO api_keys (id, key, label, user_id, status) VALUES ($1, $2, $3, $4, true) RETURNING id
	`

	RevokeApiKey = `
	UPDATE api_keys SET status = false WHERE key = $1
	`
)
