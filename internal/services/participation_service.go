package services

import (
	"context"
	"errors"
	"time"

	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/domain"
	"campus-collective/agora/internal/logging"
	"campus-collective/agora/internal/metrics"
	"campus-collective/agora/internal/models/dtos"
	"campus-collective/agora/internal/qrcode"
)

// AttendancePublisher is the slice of the queue service VerifyAttendance
// needs. Nil means no queue is attached and credits land synchronously.
type AttendancePublisher interface {
	Enqueue(ctx context.Context, streamName string, item *common.AttendanceQueueItem) error
}

// ParticipationService owns every participation state change: join, leave
// and the QR-backed attendance confirmation. All writes funnel through here
// so the capacity and one-active-row rules hold no matter which handler
// triggered them.
type ParticipationService struct {
	eventRepo  *repositories.EventRepository
	partRepo   *repositories.ParticipationRepository
	ledgerRepo *repositories.LedgerRepository
	cipher     *qrcode.Cipher
	queue      AttendancePublisher
	metrics    *metrics.MetricsRegistry
}

// NewParticipationService creates a new participation service. queue may be
// nil (no Redis configured); cipher may be nil (no QR key configured).
func NewParticipationService(
	eventRepo *repositories.EventRepository,
	partRepo *repositories.ParticipationRepository,
	ledgerRepo *repositories.LedgerRepository,
	cipher *qrcode.Cipher,
	queue AttendancePublisher,
	metricsReg *metrics.MetricsRegistry,
) *ParticipationService {
	return &ParticipationService{
		eventRepo:  eventRepo,
		partRepo:   partRepo,
		ledgerRepo: ledgerRepo,
		cipher:     cipher,
		queue:      queue,
		metrics:    metricsReg,
	}
}

// Join adds the user to the event. Preconditions are checked in a fixed
// order and the first failure wins; the capacity check itself happens inside
// the insert so concurrent joins cannot oversell the last seat.
func (s *ParticipationService) Join(ctx context.Context, eventID, userID string) (participationID string, err error) {
	defer func() {
		label := outcomeLabel(err)
		if err == nil {
			label = "joined"
		}
		s.countJoin(label)
	}()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	if event.IsDeactivated {
		return "", domain.Reject(domain.ReasonDeactivated)
	}
	if !event.IsActive {
		return "", domain.Reject(domain.ReasonNotActive)
	}

	if _, err := s.partRepo.FindActive(ctx, eventID, userID); err == nil {
		return "", domain.Reject(domain.ReasonAlreadyJoined)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	participationID, err = s.partRepo.JoinAtomic(ctx, eventID, userID, event.TotalSeats)
	if err != nil {
		return "", err
	}

	logging.Info("user joined event", "event_id", eventID, "user_id", userID, "participation_id", participationID)
	return participationID, nil
}

// Leave deactivates the user's active participation. The row itself stays
// as history; rejoin later creates a fresh row.
func (s *ParticipationService) Leave(ctx context.Context, eventID, userID string) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}

	n, err := s.partRepo.DeactivateAll(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.Reject(domain.ReasonNotJoined)
	}

	logging.Info("user left event", "event_id", eventID, "user_id", userID)
	return nil
}

// VerifyAttendance confirms physical attendance from a scanned code. The
// scanned ciphertext and the stored one must decrypt, under the event's
// stored IV, to the same payload; every way that can fail collapses to one
// rejection so the endpoint leaks nothing to someone probing codes.
func (s *ParticipationService) VerifyAttendance(ctx context.Context, eventID, userID, scanned string) (err error) {
	defer func() { s.countVerify(outcomeLabel(err)) }()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.IsDeactivated {
		return domain.Reject(domain.ReasonDeactivated)
	}

	participation, err := s.partRepo.FindActive(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Reject(domain.ReasonNotJoined)
		}
		return err
	}
	if participation.IsConfirmed {
		return domain.Reject(domain.ReasonAlreadyConfirmed)
	}

	if scanned == "" || !event.HasQRCode() {
		return domain.Reject(domain.ReasonInvalidCode)
	}
	if s.cipher == nil {
		return domain.Config("qr encryption key not configured")
	}

	// Both sides decrypt with the stored IV; the request never carries one.
	storedPlain, err := s.cipher.Decrypt(*event.QRCodeString, *event.QRCodeIV)
	if err != nil {
		return domain.Reject(domain.ReasonInvalidCode)
	}
	scannedPlain, err := s.cipher.Decrypt(scanned, *event.QRCodeIV)
	if err != nil {
		return domain.Reject(domain.ReasonInvalidCode)
	}
	if storedPlain != scannedPlain {
		return domain.Reject(domain.ReasonInvalidCode)
	}

	n, err := s.partRepo.ConfirmActive(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		// The active row vanished between read and write: concurrent leave.
		return domain.Reject(domain.ReasonNotJoined)
	}

	s.publishCredit(ctx, event.ID, userID, event.ActivityHours)

	logging.Info("attendance confirmed", "event_id", eventID, "user_id", userID)
	return nil
}

// ListUserParticipations returns the caller's history with events attached,
// plus the hours the ledger has credited so far.
func (s *ParticipationService) ListUserParticipations(ctx context.Context, userID string, activeOnly bool) (*dtos.UserParticipationsResponse, error) {
	rows, err := s.partRepo.ListForUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, err
	}

	hours, err := s.ledgerRepo.TotalHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dtos.UserParticipationsResponse{
		Participations: make([]dtos.ParticipationResponse, 0, len(rows)),
		TotalHours:     hours,
	}
	for i := range rows {
		p := &rows[i]
		pr := dtos.ParticipationResponse{
			ID:          p.ID,
			EventID:     p.EventID,
			UserID:      p.UserID,
			IsActive:    p.IsActive,
			IsConfirmed: p.IsConfirmed,
			CreatedAt:   p.CreatedAt.UnixMilli(),
		}
		if p.Event.ID != "" {
			ev := buildEventResponse(&p.Event)
			pr.Event = &ev
		}
		resp.Participations = append(resp.Participations, pr)
	}
	return resp, nil
}

// publishCredit hands the confirmed attendance to the ledger pipeline. With
// a queue attached the credit is asynchronous; without one, or when the
// enqueue fails, it lands synchronously. Credit failures never unwind the
// confirmation, they are logged for reconciliation.
func (s *ParticipationService) publishCredit(ctx context.Context, eventID, userID string, hours float64) {
	if s.queue != nil {
		item := &common.AttendanceQueueItem{
			UserID:      userID,
			EventID:     eventID,
			Hours:       hours,
			ConfirmedAt: time.Now().UnixMilli(),
			Source:      "qr_verification",
		}
		err := s.queue.Enqueue(ctx, constants.AttendanceStream, item)
		if err == nil {
			return
		}
		logging.Error("attendance enqueue failed, crediting directly",
			"event_id", eventID, "user_id", userID, "error", err.Error())
	}

	if _, err := s.ledgerRepo.Credit(ctx, userID, eventID, hours); err != nil {
		logging.Error("ledger credit failed", "event_id", eventID, "user_id", userID, "error", err.Error())
	}
}

func (s *ParticipationService) countJoin(result string) {
	if s.metrics != nil {
		s.metrics.EventJoinsTotal.WithLabelValues(result).Inc()
	}
}

func (s *ParticipationService) countVerify(result string) {
	if s.metrics != nil {
		s.metrics.QRVerificationsTotal.WithLabelValues(result).Inc()
	}
}

// outcomeLabel flattens an operation error onto a bounded metric label set.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if reason, ok := domain.RejectionReason(err); ok {
		switch reason {
		case domain.ReasonFull:
			return "full"
		case domain.ReasonAlreadyJoined:
			return "already_joined"
		case domain.ReasonNotActive:
			return "not_active"
		case domain.ReasonDeactivated:
			return "deactivated"
		case domain.ReasonInvalidCode:
			return "invalid_code"
		case domain.ReasonNotJoined:
			return "not_joined"
		case domain.ReasonAlreadyConfirmed:
			return "already_confirmed"
		default:
			return "rejected"
		}
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "not_found"
	}
	return "error"
}
