package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"campus-collective/agora/internal/models/entities"
)

const apiVersion = "1.0.0"

// HealthCheckHandler handles GET /healthcheck
//
// @Summary Health check
// @Description Reports server liveness plus postgres and redis reachability.
// @Tags Misc
// @Success 200 {object} entities.HealthCheckResponse
// @Router /healthcheck [get]
func HealthCheckHandler(db *sqlx.DB, rdb *redis.Client, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		deps := make(map[string]entities.DependencyStatus)

		pg := entities.DependencyStatus{Up: true, Details: "postgres connected"}
		if err := db.Ping(); err != nil {
			pg = entities.DependencyStatus{Details: err.Error()}
		}
		deps["postgres"] = pg

		// Redis is probed only when attached; running without it is a
		// supported configuration, not an outage.
		if rdb != nil {
			rd := entities.DependencyStatus{Up: true, Details: "redis connected"}
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			if err := rdb.Ping(ctx).Err(); err != nil {
				rd = entities.DependencyStatus{Details: err.Error()}
			}
			cancel()
			deps["redis"] = rd
		}

		status := "ok"
		for _, d := range deps {
			if !d.Up {
				status = "down"
				break
			}
		}

		resp := entities.HealthCheckResponse{
			Status:       status,
			Version:      apiVersion,
			Dependencies: deps,
			UpSince:      upSince,
			Uptime:       time.Since(upSince).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
