package api

import (
	"log"
	"net/http"
	"time"

	"campus-collective/agora/internal/auth"
	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/jobs"
	"campus-collective/agora/internal/models/dtos"
)

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	expiryJob *jobs.EventExpiryJob
	queue     *common.RedisQueueService
}

// NewJobsHandler creates a new jobs handler. queue may be nil when redis is
// not configured.
func NewJobsHandler(expiryJob *jobs.EventExpiryJob, queue *common.RedisQueueService) *JobsHandler {
	return &JobsHandler{
		expiryJob: expiryJob,
		queue:     queue,
	}
}

// TriggerEventExpiry manually runs one expiry sweep
// @Summary Trigger the event expiry sweep
// @Description Retires all events whose end time has passed, without waiting
// @Description for the scheduled run.
// @Tags admin,jobs
// @Produce json
// @Success 200 {object} responses.APIResponse[dtos.SweepResult]
// @Failure 500 {object} responses.APIResponse[dtos.SweepResult]
// @Router /api/v1/admin/jobs/event-expiry [post]
func (h *JobsHandler) TriggerEventExpiry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		claims := auth.GetUserClaims(r.Context())
		log.Printf("[JobsHandler] Expiry sweep manually triggered by user %s", claims.UserID())

		expired, err := h.expiryJob.Run(r.Context())
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, "Expiry sweep completed", &dtos.SweepResult{
			Expired:     expired,
			TriggeredBy: claims.UserID(),
			DurationMs:  time.Since(start).Milliseconds(),
		})
	}
}

// JobsStatus reports queue depth and pending count for the ledger stream
// @Summary Get background job status
// @Tags admin,jobs
// @Produce json
// @Success 200 {object} responses.APIResponse[dtos.JobsStatusResponse]
// @Router /api/v1/admin/jobs/status [get]
func (h *JobsHandler) JobsStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := dtos.JobsStatusResponse{}

		if h.queue != nil {
			status.LedgerQueueAttached = true
			if n, err := h.queue.QueueLength(r.Context(), constants.AttendanceStream); err == nil {
				status.LedgerQueueLength = n
			}
			if n, err := h.queue.PendingCount(r.Context(), constants.AttendanceStream, constants.AttendanceGroup); err == nil {
				status.LedgerPendingCount = n
			}
		}

		respondWithSuccess(w, http.StatusOK, "Job status retrieved", &status)
	}
}
