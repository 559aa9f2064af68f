package jobs

import (
	"context"
	"log"
	"os"
	"time"

	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/metrics"
)

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(
	ctx context.Context,
	eventRepo *repositories.EventRepository,
	metricsReg *metrics.MetricsRegistry,
) *EventExpiryJob {
	// Expiry sweep (retires ended events, hourly unless overridden)
	expiryJob := NewEventExpiryJob(eventRepo, metricsReg)

	go expiryJob.RunScheduled(ctx, sweepInterval())

	return expiryJob
}

func sweepInterval() time.Duration {
	raw := os.Getenv("EXPIRY_SWEEP_INTERVAL")
	if raw == "" {
		return 1 * time.Hour
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		log.Printf("[EventExpiryJob] Invalid EXPIRY_SWEEP_INTERVAL %q, using 1h", raw)
		return 1 * time.Hour
	}
	return interval
}
