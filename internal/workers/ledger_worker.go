package workers

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/metrics"
)

const (
	// ledgerStreamMaxLen bounds the attendance stream; entries past this are
	// already acknowledged history.
	ledgerStreamMaxLen = 10000

	housekeepingInterval = 2 * time.Minute
	staleClaimAge        = 5 * time.Minute
)

// LedgerWorker consumes confirmed attendances from the redis stream and
// writes activity ledger rows. Credits are idempotent, so redelivered or
// claimed messages never double-count hours.
type LedgerWorker struct {
	workerID   string
	redisQueue *common.RedisQueueService
	ledgerRepo *repositories.LedgerRepository
	metrics    *metrics.MetricsRegistry
}

// NewLedgerWorker creates a new ledger worker
func NewLedgerWorker(
	workerID string,
	redisQueue *common.RedisQueueService,
	ledgerRepo *repositories.LedgerRepository,
	metricsReg *metrics.MetricsRegistry,
) *LedgerWorker {
	return &LedgerWorker{
		workerID:   workerID,
		redisQueue: redisQueue,
		ledgerRepo: ledgerRepo,
		metrics:    metricsReg,
	}
}

// Start begins consuming the attendance stream with numWorkers consumers
// plus one housekeeping goroutine. Blocks until the context ends.
func (w *LedgerWorker) Start(ctx context.Context, numWorkers int) error {
	log.Printf("[LedgerWorker] Starting %d workers with ID prefix: %s", numWorkers, w.workerID)

	if err := w.redisQueue.CreateConsumerGroup(ctx, constants.AttendanceStream, constants.AttendanceGroup); err != nil {
		log.Printf("[LedgerWorker] Warning - failed to create consumer group: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		consumerName := fmt.Sprintf("%s-worker-%d", w.workerID, i)

		go func(name string) {
			defer wg.Done()
			w.processQueue(ctx, name)
		}(consumerName)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.housekeeping(ctx)
	}()

	wg.Wait()
	log.Printf("[LedgerWorker] All workers stopped")
	return nil
}

// processQueue continuously consumes the attendance stream
func (w *LedgerWorker) processQueue(ctx context.Context, consumerName string) {
	log.Printf("[%s] Started processing queue: %s", consumerName, constants.AttendanceStream)

	processedCount := 0
	errorCount := 0

	for {
		select {
		case <-ctx.Done():
			log.Printf("[%s] Shutting down. Processed: %d, Errors: %d", consumerName, processedCount, errorCount)
			return
		default:
			// Block for up to 5 seconds waiting for the next attendance
			item, messageID, err := w.redisQueue.Dequeue(ctx, constants.AttendanceStream, constants.AttendanceGroup, consumerName, 5*time.Second)
			if err != nil {
				log.Printf("[%s] Error dequeuing: %v", consumerName, err)
				time.Sleep(1 * time.Second) // Back off on error
				continue
			}

			if item == nil {
				// No messages available (timeout), continue loop
				continue
			}

			if err := w.credit(ctx, item); err != nil {
				log.Printf("[%s] Error crediting %s/%s: %v", consumerName, item.UserID, item.EventID, err)
				errorCount++
				// Leave the message pending so the stale claimer retries it.
				continue
			}
			processedCount++

			if err := w.redisQueue.Ack(ctx, constants.AttendanceStream, constants.AttendanceGroup, messageID); err != nil {
				log.Printf("[%s] Error acknowledging message %s: %v", consumerName, messageID, err)
			}
		}
	}
}

// credit writes the ledger row for one confirmed attendance
func (w *LedgerWorker) credit(ctx context.Context, item *common.AttendanceQueueItem) error {
	created, err := w.ledgerRepo.Credit(ctx, item.UserID, item.EventID, item.Hours)
	if err != nil {
		return err
	}
	if !created {
		// Redelivery of an already-credited attendance, nothing to do.
		log.Printf("[LedgerWorker] Skipping duplicate credit for user %s event %s", item.UserID, item.EventID)
	}
	return nil
}

// housekeeping periodically claims stale messages, refreshes the queue depth
// gauge, and trims acknowledged history.
func (w *LedgerWorker) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	claimerName := fmt.Sprintf("%s-claimer", w.workerID)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			items, messageIDs, err := w.redisQueue.ClaimStale(ctx, constants.AttendanceStream, constants.AttendanceGroup, claimerName, staleClaimAge)
			if err != nil {
				log.Printf("[LedgerWorker] Error claiming stale messages: %v", err)
			} else if len(items) > 0 {
				log.Printf("[LedgerWorker] Claimed %d stale messages", len(items))

				for i, item := range items {
					if err := w.credit(ctx, item); err != nil {
						log.Printf("[LedgerWorker] Error processing claimed message: %v", err)
						continue
					}
					if err := w.redisQueue.Ack(ctx, constants.AttendanceStream, constants.AttendanceGroup, messageIDs[i]); err != nil {
						log.Printf("[LedgerWorker] Error acknowledging claimed message: %v", err)
					}
				}
			}

			if n, err := w.redisQueue.QueueLength(ctx, constants.AttendanceStream); err == nil && w.metrics != nil {
				w.metrics.LedgerQueueDepth.Set(float64(n))
			}

			if err := w.redisQueue.TrimStream(ctx, constants.AttendanceStream, ledgerStreamMaxLen); err != nil {
				log.Printf("[LedgerWorker] Error trimming stream: %v", err)
			}
		}
	}
}
