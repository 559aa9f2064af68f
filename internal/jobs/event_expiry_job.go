package jobs

import (
	"context"
	"log"
	"time"

	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/metrics"
)

// EventExpiryJob retires events whose end time has passed by flipping
// is_active off. Deactivation is a separate, explicit operation; the sweep
// never touches is_deactivated.
type EventExpiryJob struct {
	eventRepo *repositories.EventRepository
	metrics   *metrics.MetricsRegistry
}

// NewEventExpiryJob creates a new expiry sweep instance
func NewEventExpiryJob(eventRepo *repositories.EventRepository, metricsReg *metrics.MetricsRegistry) *EventExpiryJob {
	return &EventExpiryJob{
		eventRepo: eventRepo,
		metrics:   metricsReg,
	}
}

// Run executes a single sweep and returns how many events it expired.
func (j *EventExpiryJob) Run(ctx context.Context) (int64, error) {
	start := time.Now()

	expired, err := j.eventRepo.SweepExpired(ctx, start)
	if err != nil {
		log.Printf("[EventExpiryJob] Sweep failed: %v", err)
		return 0, err
	}

	duration := time.Since(start)
	if j.metrics != nil {
		j.metrics.EventsExpiredTotal.Add(float64(expired))
		j.metrics.JobDuration.WithLabelValues("event_expiry").Observe(duration.Seconds())
	}

	if expired > 0 {
		log.Printf("[EventExpiryJob] Expired %d events in %s", expired, duration.Truncate(time.Millisecond))
	}

	return expired, nil
}

// RunScheduled runs the sweep on a fixed interval until the context ends.
func (j *EventExpiryJob) RunScheduled(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Sweep once at start so a restart can't leave ended events active
	// for a whole interval.
	if _, err := j.Run(ctx); err != nil {
		log.Printf("[EventExpiryJob] Error in initial run: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				log.Printf("[EventExpiryJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[EventExpiryJob] Shutting down scheduled sweep")
			return
		}
	}
}
