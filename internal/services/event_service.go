package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"

	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/domain"
	"campus-collective/agora/internal/logging"
	"campus-collective/agora/internal/models/dtos"
	gormModels "campus-collective/agora/internal/models/gorm"
	"campus-collective/agora/internal/qrcode"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	qrCacheTTL   = time.Hour
	feedCacheTTL = time.Minute
)

// EventService owns the event lifecycle: create, edit, deactivate, listing,
// and the attendance QR pair. Participation state changes live in
// ParticipationService; this service only reads participation for join
// status on detail views.
type EventService struct {
	eventRepo *repositories.EventRepository
	partRepo  *repositories.ParticipationRepository
	userRepo  *repositories.UserRepositoryGORM
	typeSvc   *EventTypeService
	cipher    *qrcode.Cipher
	sanitizer *bluemonday.Policy
	cache     common.CacheInterface

	// qrGroup collapses concurrent first-issuance calls for the same event
	// into one encrypt+store; the database guard in SetQRCodeIfAbsent covers
	// races across instances.
	qrGroup singleflight.Group
}

// NewEventService creates a new event service. cipher may be nil when the
// QR key is not configured; QR operations then fail with a configuration
// error instead of panicking.
func NewEventService(
	eventRepo *repositories.EventRepository,
	partRepo *repositories.ParticipationRepository,
	userRepo *repositories.UserRepositoryGORM,
	typeSvc *EventTypeService,
	cipher *qrcode.Cipher,
	cache common.CacheInterface,
) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		partRepo:  partRepo,
		userRepo:  userRepo,
		typeSvc:   typeSvc,
		cipher:    cipher,
		sanitizer: bluemonday.UGCPolicy(),
		cache:     cache,
	}
}

// Create persists a new event owned by organizerID. The request is already
// structurally valid; this resolves type names and strips markup from the
// description before writing.
func (s *EventService) Create(ctx context.Context, organizerID string, req *dtos.CreateEventRequest) (*dtos.EventResponse, error) {
	var types []gormModels.EventType
	if len(req.EventTypeNames) > 0 {
		resolved, err := s.typeSvc.ResolveNames(ctx, req.EventTypeNames)
		if err != nil {
			return nil, err
		}
		if len(resolved) == 0 {
			return nil, domain.Reject(domain.ReasonNoEventTypes)
		}
		types = resolved
	}

	event := &gormModels.Event{
		Name:          req.Name,
		Description:   s.sanitizer.Sanitize(req.Description),
		ImageURL:      req.ImageURL,
		ActivityHours: req.ActivityHours,
		TotalSeats:    req.TotalSeats,
		StartTime:     time.UnixMilli(req.StartTime),
		EndTime:       time.UnixMilli(req.EndTime),
		Location:      req.Location,
		IsActive:      true,
		IsDeactivated: false,
		CreatedBy:     organizerID,
		Types:         types,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	logging.Info("event created", "event_id", event.ID, "created_by", organizerID, "name", event.Name)

	resp := buildEventResponse(event)
	return &resp, nil
}

// Edit applies a partial update. Deactivated events reject all edits; the
// QR pair and createdBy are never editable.
func (s *EventService) Edit(ctx context.Context, eventID string, req *dtos.EditEventRequest) (*dtos.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsDeactivated {
		return nil, domain.Reject(domain.ReasonAlreadyDeactivated)
	}

	// Either side of the window may be omitted, so ordering is checked
	// against the effective values.
	newStart := event.StartTime
	if req.StartTime != nil {
		newStart = time.UnixMilli(*req.StartTime)
	}
	newEnd := event.EndTime
	if req.EndTime != nil {
		newEnd = time.UnixMilli(*req.EndTime)
	}
	if !newEnd.After(newStart) {
		return nil, domain.Reject("endTime must be after startTime")
	}

	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = s.sanitizer.Sanitize(*req.Description)
	}
	if req.ImageURL != nil {
		patch["image_url"] = *req.ImageURL
	}
	if req.ActivityHours != nil {
		patch["activity_hours"] = *req.ActivityHours
	}
	if req.TotalSeats != nil {
		patch["total_seats"] = *req.TotalSeats
	}
	if req.StartTime != nil {
		patch["start_time"] = newStart
	}
	if req.EndTime != nil {
		patch["end_time"] = newEnd
	}
	if req.Location != nil {
		patch["location"] = *req.Location
	}
	if req.IsActive != nil {
		patch["is_active"] = *req.IsActive
	}

	if req.EventTypeNames != nil {
		var types []gormModels.EventType
		if len(*req.EventTypeNames) > 0 {
			resolved, err := s.typeSvc.ResolveNames(ctx, *req.EventTypeNames)
			if err != nil {
				return nil, err
			}
			if len(resolved) == 0 {
				return nil, domain.Reject(domain.ReasonNoEventTypes)
			}
			types = resolved
		}
		if err := s.eventRepo.ReplaceTypes(ctx, eventID, types); err != nil {
			return nil, err
		}
	}

	if err := s.eventRepo.Update(ctx, eventID, patch); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	logging.Info("event edited", "event_id", eventID)

	resp := buildEventResponse(updated)
	return &resp, nil
}

// EditPrefill returns the current editable field values. Unlike Get it does
// not reject deactivated events: organizers may still inspect them.
func (s *EventService) EditPrefill(ctx context.Context, eventID string) (*dtos.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	resp := buildEventResponse(event)
	return &resp, nil
}

// Deactivate retires an event permanently. Repeated calls reject.
func (s *EventService) Deactivate(ctx context.Context, eventID string) error {
	won, err := s.eventRepo.Deactivate(ctx, eventID)
	if err != nil {
		return err
	}
	if !won {
		// Either missing or already flipped; look once to tell them apart.
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.IsDeactivated {
			return domain.Reject(domain.ReasonAlreadyDeactivated)
		}
		return domain.NotFound("event")
	}

	logging.Info("event deactivated", "event_id", eventID)
	return nil
}

// GetOrCreateQRCode returns the event's attendance pair, issuing it on first
// call. Every call for the same event returns a byte-identical pair.
func (s *EventService) GetOrCreateQRCode(ctx context.Context, eventID string) (*dtos.QRCodeResponse, error) {
	cacheKey := string(constants.CachePrefixEventQR) + eventID
	if val, found := s.cache.Get(cacheKey); found {
		if resp, ok := val.(dtos.QRCodeResponse); ok {
			return &resp, nil
		}
	}

	v, err, _ := s.qrGroup.Do(eventID, func() (interface{}, error) {
		return s.issueQRCode(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}

	resp := v.(*dtos.QRCodeResponse)
	s.cache.Set(cacheKey, *resp, qrCacheTTL)
	return resp, nil
}

func (s *EventService) issueQRCode(ctx context.Context, eventID string) (*dtos.QRCodeResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// A stored pair is served as-is, even for retired events; deactivation
	// only blocks first issuance.
	if event.HasQRCode() {
		return s.renderQRResponse(*event.QRCodeString, *event.QRCodeIV)
	}

	if event.IsDeactivated {
		return nil, domain.Reject(domain.ReasonDeactivated)
	}

	if s.cipher == nil {
		return nil, domain.Config("qr encryption key not configured")
	}

	uid, err := uuid.Parse(event.ID)
	if err != nil {
		return nil, domain.Transient("encode qr payload", err)
	}

	payload := qrcode.EncodePayload(uid, time.Now())
	ciphertext, iv, err := s.cipher.Encrypt(payload)
	if err != nil {
		return nil, domain.Transient("encrypt qr payload", err)
	}

	won, err := s.eventRepo.SetQRCodeIfAbsent(ctx, eventID, ciphertext, iv)
	if err != nil {
		return nil, err
	}
	if !won {
		// Another instance landed first; serve its pair.
		stored, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if !stored.HasQRCode() {
			return nil, domain.Transient("read qr code", fmt.Errorf("pair missing after losing install race"))
		}
		return s.renderQRResponse(*stored.QRCodeString, *stored.QRCodeIV)
	}

	logging.Info("qr code issued", "event_id", eventID)
	return s.renderQRResponse(ciphertext, iv)
}

func (s *EventService) renderQRResponse(ciphertext, iv string) (*dtos.QRCodeResponse, error) {
	png, err := qrcode.RenderPNG(ciphertext, qrcode.DefaultImageSize)
	if err != nil {
		return nil, domain.Transient("render qr image", err)
	}
	return &dtos.QRCodeResponse{
		QRCodeString: ciphertext,
		QRCodeIv:     iv,
		ImageBase64:  base64.StdEncoding.EncodeToString(png),
	}, nil
}

// QRCodePNG returns the raw PNG for direct embedding.
func (s *EventService) QRCodePNG(ctx context.Context, eventID string) ([]byte, error) {
	resp, err := s.GetOrCreateQRCode(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(resp.ImageBase64)
}

// CheckQRCode previews a scanned code without mutating anything. Invalid
// inputs of every flavor come back as isValid=false; the response never
// says why a code failed.
func (s *EventService) CheckQRCode(ctx context.Context, req *dtos.CheckQRCodeRequest) (*dtos.CheckQRCodeResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event.IsDeactivated {
		return nil, domain.Reject(domain.ReasonDeactivated)
	}

	invalid := &dtos.CheckQRCodeResponse{IsValid: false}

	if !event.HasQRCode() {
		return invalid, nil
	}

	scanned := req.EncryptedString
	if scanned == "" && req.ImageBase64 != "" {
		img, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return invalid, nil
		}
		text, ok := qrcode.ScanPNG(img)
		if !ok {
			return invalid, nil
		}
		scanned = text
	}
	if scanned == "" {
		return invalid, nil
	}

	if s.cipher == nil {
		return nil, domain.Config("qr encryption key not configured")
	}

	plaintext, err := s.cipher.Decrypt(scanned, *event.QRCodeIV)
	if err != nil {
		return invalid, nil
	}

	payload, err := qrcode.DecodePayload(plaintext)
	if err != nil {
		return invalid, nil
	}
	if payload.EventID.String() != event.ID {
		return invalid, nil
	}

	return &dtos.CheckQRCodeResponse{
		IsValid:  true,
		EventID:  event.ID,
		IssuedAt: payload.IssuedAt.UnixMilli(),
	}, nil
}

// List returns one page of events. Type names expand to ids (including
// direct children) before filtering; a filter naming only unknown types
// matches nothing rather than everything.
func (s *EventService) List(ctx context.Context, q *dtos.ListEventsQuery) (*dtos.EventListResponse, error) {
	page, pageSize := normalizePage(q.PageNumber, q.PageSize)

	sortKey := repositories.SortMostRecentlyCreated
	if q.SortKey != "" {
		parsed, ok := repositories.ParseSortKey(q.SortKey)
		if !ok {
			return nil, domain.Reject(constants.MsgInvalidSortKey)
		}
		sortKey = parsed
	}

	var typeIDs []string
	if len(q.EventTypeNames) > 0 {
		types, err := s.typeSvc.ResolveNames(ctx, q.EventTypeNames)
		if err != nil {
			return nil, err
		}
		if len(types) == 0 {
			return &dtos.EventListResponse{
				Events:     []dtos.EventResponse{},
				TotalCount: 0,
				PageNumber: page,
				PageSize:   pageSize,
			}, nil
		}
		for _, t := range types {
			typeIDs = append(typeIDs, t.ID)
		}
	}

	filter := repositories.EventFilter{
		NameContains:       q.NameContains,
		EventTypeIDs:       typeIDs,
		IncludeDeactivated: q.IncludeDeactivated,
		Page:               page,
		PageSize:           pageSize,
	}
	sort := repositories.EventSort{Key: sortKey, ActiveFirst: q.SortActiveFirst}

	events, total, err := s.eventRepo.List(ctx, filter, sort)
	if err != nil {
		return nil, err
	}

	return &dtos.EventListResponse{
		Events:     buildEventResponses(events),
		TotalCount: total,
		PageNumber: page,
		PageSize:   pageSize,
	}, nil
}

// Get returns event detail. Deactivated events reject; a signed-in viewer
// additionally gets their join status.
func (s *EventService) Get(ctx context.Context, eventID, viewerID string) (*dtos.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsDeactivated {
		return nil, domain.Reject(domain.ReasonDeactivated)
	}

	resp := buildEventResponse(event)

	if viewerID != "" {
		_, err := s.partRepo.FindActive(ctx, eventID, viewerID)
		switch {
		case err == nil:
			joined := true
			resp.HasJoined = &joined
		case errors.Is(err, domain.ErrNotFound):
			joined := false
			resp.HasJoined = &joined
		default:
			return nil, err
		}
	}

	return &resp, nil
}

// ListRecommended ranks events whose whole type-set falls inside the
// caller's interests first. The page is cached briefly per user; a changed
// interest set shows up within a minute.
func (s *EventService) ListRecommended(ctx context.Context, userID string, pageNumber, pageSize int) (*dtos.EventListResponse, error) {
	page, size := normalizePage(pageNumber, pageSize)

	cacheKey := fmt.Sprintf("%s%s_p%d_s%d", constants.CachePrefixRecommendFeed, userID, page, size)
	if val, found := s.cache.Get(cacheKey); found {
		if resp, ok := val.(dtos.EventListResponse); ok {
			return &resp, nil
		}
	}

	interestIDs, err := s.userRepo.InterestedTypeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, total, err := s.eventRepo.ListRecommended(ctx, interestIDs, page, size)
	if err != nil {
		return nil, err
	}

	resp := dtos.EventListResponse{
		Events:     buildEventResponses(events),
		TotalCount: total,
		PageNumber: page,
		PageSize:   size,
	}

	s.cache.Set(cacheKey, resp, feedCacheTTL)
	return &resp, nil
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func buildEventResponses(events []gormModels.Event) []dtos.EventResponse {
	resp := make([]dtos.EventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, buildEventResponse(&events[i]))
	}
	return resp
}

func buildEventResponse(ev *gormModels.Event) dtos.EventResponse {
	types := make([]dtos.EventTypeResponse, 0, len(ev.Types))
	for _, t := range ev.Types {
		types = append(types, dtos.EventTypeResponse{
			ID:       t.ID,
			Name:     t.Name,
			ParentID: t.ParentID,
		})
	}

	return dtos.EventResponse{
		ID:                ev.ID,
		Name:              ev.Name,
		Description:       ev.Description,
		ImageURL:          ev.ImageURL,
		ActivityHours:     ev.ActivityHours,
		TotalSeats:        ev.TotalSeats,
		StartTime:         ev.StartTime.UnixMilli(),
		EndTime:           ev.EndTime.UnixMilli(),
		Location:          ev.Location,
		IsActive:          ev.IsActive,
		IsDeactivated:     ev.IsDeactivated,
		HasQRCode:         ev.HasQRCode(),
		EventTypes:        types,
		CreatedBy:         ev.CreatedBy,
		ParticipantsCount: ev.ParticipantCount,
		CreatedAt:         ev.CreatedAt.UnixMilli(),
		UpdatedAt:         ev.UpdatedAt.UnixMilli(),
	}
}
