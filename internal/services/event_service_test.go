package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/constants"
	agoradb "campus-collective/agora/internal/db"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/domain"
	"campus-collective/agora/internal/models/dtos"
	gormModels "campus-collective/agora/internal/models/gorm"
	"campus-collective/agora/internal/qrcode"
)

// Same 32-byte key the cipher tests use.
const testKeyHex = "6368616e676520746869732070617373776f726420746f206120736563726574"

// testEnv wires the services over real repositories and an in-memory
// database, so business-rule tests also cover the SQL they ship with.
// Metrics stay nil: the registry binds to the default Prometheus registry
// and would panic on double registration across tests.
type testEnv struct {
	db       *gorm.DB
	events   *repositories.EventRepository
	parts    *repositories.ParticipationRepository
	ledger   *repositories.LedgerRepository
	types    *repositories.EventTypeRepository
	users    *repositories.UserRepositoryGORM
	cipher   *qrcode.Cipher
	cache    common.CacheInterface
	typeSvc  *EventTypeService
	eventSvc *EventService
	partSvc  *ParticipationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// In-memory sqlite keeps one schema per connection; pin the pool to a
	// single connection so every query sees the migrated tables.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := agoradb.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cipher, err := qrcode.NewCipher(testKeyHex)
	if err != nil {
		t.Fatalf("Failed to build cipher: %v", err)
	}

	env := &testEnv{
		db:     db,
		events: repositories.NewEventRepository(db),
		parts:  repositories.NewParticipationRepository(db),
		ledger: repositories.NewLedgerRepository(db),
		types:  repositories.NewEventTypeRepository(db),
		users:  repositories.NewUserRepositoryGORM(db),
		cipher: cipher,
		cache:  common.NewCacheService(60, 120),
	}
	env.typeSvc = NewEventTypeService(env.types, env.users, env.cache, nil)
	env.eventSvc = NewEventService(env.events, env.parts, env.users, env.typeSvc, cipher, env.cache)
	env.partSvc = NewParticipationService(env.events, env.parts, env.ledger, cipher, nil, nil)
	return env
}

func seedUser(t *testing.T, db *gorm.DB, name string) gormModels.User {
	t.Helper()
	user := gormModels.User{
		ID:          uuid.NewString(),
		DisplayName: name,
		IsActive:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedType(t *testing.T, db *gorm.DB, name string, parentID *string) gormModels.EventType {
	t.Helper()
	et := gormModels.EventType{
		ID:       uuid.NewString(),
		Name:     name,
		ParentID: parentID,
	}
	if err := db.Create(&et).Error; err != nil {
		t.Fatalf("seed event type: %v", err)
	}
	return et
}

func seedEvent(t *testing.T, db *gorm.DB, mutate func(*gormModels.Event)) gormModels.Event {
	t.Helper()
	now := time.Now()
	event := gormModels.Event{
		ID:            uuid.NewString(),
		Name:          "Seeded Event",
		ActivityHours: 2,
		TotalSeats:    10,
		StartTime:     now.Add(time.Hour),
		EndTime:       now.Add(3 * time.Hour),
		IsActive:      true,
		CreatedBy:     uuid.NewString(),
	}
	if mutate != nil {
		mutate(&event)
	}
	if err := db.Omit("Types.*").Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func wantRejection(t *testing.T, err error, reason string) {
	t.Helper()
	if got, ok := domain.RejectionReason(err); !ok || got != reason {
		t.Fatalf("error = %v, want rejection %q", err, reason)
	}
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestCreateEventSanitizesDescription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizer := seedUser(t, env.db, "organizer")

	start := time.Now().Add(time.Hour)
	resp, err := env.eventSvc.Create(ctx, organizer.ID, &dtos.CreateEventRequest{
		Name:        "Campus Cleanup",
		Description: `<script>alert(1)</script>Bring gloves.`,
		TotalSeats:  30,
		StartTime:   start.UnixMilli(),
		EndTime:     start.Add(2 * time.Hour).UnixMilli(),
		Location:    "Main Quad",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Description != "Bring gloves." {
		t.Errorf("description = %q, markup must be stripped before storage", resp.Description)
	}
	if resp.CreatedBy != organizer.ID {
		t.Errorf("createdBy = %q, want %q", resp.CreatedBy, organizer.ID)
	}
	if !resp.IsActive || resp.IsDeactivated || resp.HasQRCode {
		t.Errorf("new event flags = active:%v deactivated:%v qr:%v, want active only",
			resp.IsActive, resp.IsDeactivated, resp.HasQRCode)
	}

	stored, err := env.events.GetByID(ctx, resp.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Description != "Bring gloves." {
		t.Errorf("stored description = %q", stored.Description)
	}
}

func TestCreateEventResolvesTypeNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizer := seedUser(t, env.db, "organizer")
	sports := seedType(t, env.db, "Sports", nil)
	football := seedType(t, env.db, "Football", &sports.ID)

	start := time.Now().Add(time.Hour)
	resp, err := env.eventSvc.Create(ctx, organizer.ID, &dtos.CreateEventRequest{
		Name:           "Friendly Match",
		TotalSeats:     22,
		StartTime:      start.UnixMilli(),
		EndTime:        start.Add(2 * time.Hour).UnixMilli(),
		Location:       "North Field",
		EventTypeNames: []string{"football"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(resp.EventTypes) != 1 || resp.EventTypes[0].ID != football.ID {
		t.Errorf("types = %+v, want exactly the Football type", resp.EventTypes)
	}
}

func TestCreateEventUnknownTypesRejects(t *testing.T) {
	env := newTestEnv(t)
	organizer := seedUser(t, env.db, "organizer")

	start := time.Now().Add(time.Hour)
	_, err := env.eventSvc.Create(context.Background(), organizer.ID, &dtos.CreateEventRequest{
		Name:           "Ghost Meetup",
		TotalSeats:     5,
		StartTime:      start.UnixMilli(),
		EndTime:        start.Add(time.Hour).UnixMilli(),
		Location:       "Nowhere Hall",
		EventTypeNames: []string{"does-not-exist"},
	})
	wantRejection(t, err, domain.ReasonNoEventTypes)
}

func TestEditEventKeepsUnpatchedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, func(e *gormModels.Event) {
		e.Name = "Original Name"
		e.Location = "Lecture Hall B"
	})

	resp, err := env.eventSvc.Edit(ctx, event.ID, &dtos.EditEventRequest{
		Name: strPtr("Renamed Event"),
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}

	if resp.Name != "Renamed Event" {
		t.Errorf("name = %q, want the patched value", resp.Name)
	}
	if resp.Location != "Lecture Hall B" {
		t.Errorf("location = %q, absent fields must keep their stored values", resp.Location)
	}
	if resp.TotalSeats != event.TotalSeats {
		t.Errorf("totalSeats = %d, want untouched %d", resp.TotalSeats, event.TotalSeats)
	}
}

func TestEditEventWindowCheckedAgainstStoredValues(t *testing.T) {
	env := newTestEnv(t)
	event := seedEvent(t, env.db, nil)

	// Only endTime is patched, so the ordering check must use the stored
	// start.
	badEnd := event.StartTime.Add(-time.Hour)
	_, err := env.eventSvc.Edit(context.Background(), event.ID, &dtos.EditEventRequest{
		EndTime: int64Ptr(badEnd.UnixMilli()),
	})
	wantRejection(t, err, "endTime must be after startTime")
}

func TestEditDeactivatedEventRejects(t *testing.T) {
	env := newTestEnv(t)
	event := seedEvent(t, env.db, func(e *gormModels.Event) {
		e.IsDeactivated = true
		e.IsActive = false
	})

	_, err := env.eventSvc.Edit(context.Background(), event.ID, &dtos.EditEventRequest{
		Name: strPtr("Should Not Apply"),
	})
	wantRejection(t, err, domain.ReasonAlreadyDeactivated)
}

func TestEditEventReplacesTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	chess := seedType(t, env.db, "Chess", nil)
	debate := seedType(t, env.db, "Debate", nil)
	event := seedEvent(t, env.db, func(e *gormModels.Event) {
		e.Types = []gormModels.EventType{chess}
	})

	resp, err := env.eventSvc.Edit(ctx, event.ID, &dtos.EditEventRequest{
		EventTypeNames: &[]string{"Debate"},
	})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if len(resp.EventTypes) != 1 || resp.EventTypes[0].ID != debate.ID {
		t.Errorf("types = %+v, want the Debate type only", resp.EventTypes)
	}

	cleared, err := env.eventSvc.Edit(ctx, event.ID, &dtos.EditEventRequest{
		EventTypeNames: &[]string{},
	})
	if err != nil {
		t.Fatalf("Edit clear: %v", err)
	}
	if len(cleared.EventTypes) != 0 {
		t.Errorf("types = %+v, an explicit empty list must clear the set", cleared.EventTypes)
	}
}

func TestDeactivateEventTwiceRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)

	if err := env.eventSvc.Deactivate(ctx, event.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	err := env.eventSvc.Deactivate(ctx, event.ID)
	wantRejection(t, err, domain.ReasonAlreadyDeactivated)
}

func TestDeactivateMissingEventNotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.eventSvc.Deactivate(context.Background(), uuid.NewString())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestQRCodePairStableAcrossCalls(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)

	first, err := env.eventSvc.GetOrCreateQRCode(ctx, event.ID)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := env.eventSvc.GetOrCreateQRCode(ctx, event.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if first.QRCodeString != second.QRCodeString || first.QRCodeIv != second.QRCodeIv {
		t.Error("every call must return the byte-identical stored pair")
	}

	stored, err := env.events.GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !stored.HasQRCode() || *stored.QRCodeString != first.QRCodeString {
		t.Error("pair must be persisted on the event row")
	}
}

func TestQRCodeImageEncodesStoredCiphertext(t *testing.T) {
	env := newTestEnv(t)
	event := seedEvent(t, env.db, nil)

	resp, err := env.eventSvc.GetOrCreateQRCode(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	png, err := base64.StdEncoding.DecodeString(resp.ImageBase64)
	if err != nil {
		t.Fatalf("imageBase64 must be valid base64: %v", err)
	}
	text, ok := qrcode.ScanPNG(png)
	if !ok {
		t.Fatal("rendered image must scan back")
	}
	if text != resp.QRCodeString {
		t.Errorf("scanned %q, want the stored ciphertext", text)
	}
}

func TestQRCodeDeactivatedBeforeIssueRejects(t *testing.T) {
	env := newTestEnv(t)
	event := seedEvent(t, env.db, func(e *gormModels.Event) {
		e.IsDeactivated = true
		e.IsActive = false
	})

	_, err := env.eventSvc.GetOrCreateQRCode(context.Background(), event.ID)
	wantRejection(t, err, domain.ReasonDeactivated)
}

func TestQRCodeDeactivatedAfterIssueServesStoredPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)

	issued, err := env.eventSvc.GetOrCreateQRCode(ctx, event.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := env.eventSvc.Deactivate(ctx, event.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Fresh service over the same database: the assertion must hold on the
	// persisted pair, not on a cache entry.
	svc := NewEventService(env.events, env.parts, env.users, env.typeSvc, env.cipher, common.NewCacheService(60, 120))
	got, err := svc.GetOrCreateQRCode(ctx, event.ID)
	if err != nil {
		t.Fatalf("fetch after deactivation: %v", err)
	}
	if got.QRCodeString != issued.QRCodeString || got.QRCodeIv != issued.QRCodeIv {
		t.Error("deactivation blocks first issuance only, a stored pair is served as-is")
	}
}

func TestCheckQRCodeValidString(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)

	issued, err := env.eventSvc.GetOrCreateQRCode(ctx, event.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp, err := env.eventSvc.CheckQRCode(ctx, &dtos.CheckQRCodeRequest{
		EventID:         event.ID,
		EncryptedString: issued.QRCodeString,
	})
	if err != nil {
		t.Fatalf("CheckQRCode: %v", err)
	}
	if !resp.IsValid {
		t.Fatal("stored ciphertext must check out as valid")
	}
	if resp.EventID != event.ID {
		t.Errorf("eventId = %q, want %q", resp.EventID, event.ID)
	}
	if resp.IssuedAt == 0 {
		t.Error("issuedAt must carry the payload timestamp")
	}
}

func TestCheckQRCodeImagePayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)

	issued, err := env.eventSvc.GetOrCreateQRCode(ctx, event.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp, err := env.eventSvc.CheckQRCode(ctx, &dtos.CheckQRCodeRequest{
		EventID:     event.ID,
		ImageBase64: issued.ImageBase64,
	})
	if err != nil {
		t.Fatalf("CheckQRCode: %v", err)
	}
	if !resp.IsValid {
		t.Error("a screenshot of the issued image must check out as valid")
	}
}

func TestCheckQRCodeInvalidInputs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)
	other := seedEvent(t, env.db, func(e *gormModels.Event) { e.Name = "Other Event" })

	if _, err := env.eventSvc.GetOrCreateQRCode(ctx, event.ID); err != nil {
		t.Fatalf("issue event pair: %v", err)
	}
	foreign, err := env.eventSvc.GetOrCreateQRCode(ctx, other.ID)
	if err != nil {
		t.Fatalf("issue other pair: %v", err)
	}

	cases := []struct {
		name    string
		scanned string
	}{
		{"code from another event", foreign.QRCodeString},
		{"not base64", "definitely%%not-base64"},
		{"wrong length ciphertext", base64.StdEncoding.EncodeToString([]byte("short"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := env.eventSvc.CheckQRCode(ctx, &dtos.CheckQRCodeRequest{
				EventID:         event.ID,
				EncryptedString: tc.scanned,
			})
			if err != nil {
				t.Fatalf("CheckQRCode: %v", err)
			}
			if resp.IsValid {
				t.Error("invalid input must come back isValid=false")
			}
			if resp.EventID != "" || resp.IssuedAt != 0 {
				t.Error("invalid verdicts must carry no detail")
			}
		})
	}
}

func TestCheckQRCodeWithoutStoredPair(t *testing.T) {
	env := newTestEnv(t)
	event := seedEvent(t, env.db, nil)

	resp, err := env.eventSvc.CheckQRCode(context.Background(), &dtos.CheckQRCodeRequest{
		EventID:         event.ID,
		EncryptedString: base64.StdEncoding.EncodeToString(make([]byte, 32)),
	})
	if err != nil {
		t.Fatalf("CheckQRCode: %v", err)
	}
	if resp.IsValid {
		t.Error("no code can be valid for an event that never issued one")
	}
}

func TestCheckQRCodeDeactivatedEventRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)

	issued, err := env.eventSvc.GetOrCreateQRCode(ctx, event.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := env.eventSvc.Deactivate(ctx, event.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = env.eventSvc.CheckQRCode(ctx, &dtos.CheckQRCodeRequest{
		EventID:         event.ID,
		EncryptedString: issued.QRCodeString,
	})
	wantRejection(t, err, domain.ReasonDeactivated)
}

func TestListEventsInvalidSortKeyRejects(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eventSvc.List(context.Background(), &dtos.ListEventsQuery{SortKey: "bogus"})
	wantRejection(t, err, constants.MsgInvalidSortKey)
}

func TestListEventsUnknownTypeFilterMatchesNothing(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env.db, nil)

	resp, err := env.eventSvc.List(context.Background(), &dtos.ListEventsQuery{
		EventTypeNames: []string{"ghost-category"},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.TotalCount != 0 || len(resp.Events) != 0 {
		t.Errorf("got %d events, a filter naming only unknown types must match nothing", len(resp.Events))
	}
}

func TestListEventsNormalizesPaging(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env.db, nil)

	resp, err := env.eventSvc.List(context.Background(), &dtos.ListEventsQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.PageNumber != 1 || resp.PageSize != defaultPageSize {
		t.Errorf("page=%d size=%d, want defaults applied", resp.PageNumber, resp.PageSize)
	}

	resp, err = env.eventSvc.List(context.Background(), &dtos.ListEventsQuery{PageSize: 5000})
	if err != nil {
		t.Fatalf("List capped: %v", err)
	}
	if resp.PageSize != maxPageSize {
		t.Errorf("pageSize = %d, want capped at %d", resp.PageSize, maxPageSize)
	}
}

func TestGetEventJoinStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event := seedEvent(t, env.db, nil)
	member := seedUser(t, env.db, "member")
	stranger := seedUser(t, env.db, "stranger")

	if _, err := env.partSvc.Join(ctx, event.ID, member.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	anon, err := env.eventSvc.Get(ctx, event.ID, "")
	if err != nil {
		t.Fatalf("Get anonymous: %v", err)
	}
	if anon.HasJoined != nil {
		t.Error("anonymous viewers must not get a join status")
	}

	joined, err := env.eventSvc.Get(ctx, event.ID, member.ID)
	if err != nil {
		t.Fatalf("Get member: %v", err)
	}
	if joined.HasJoined == nil || !*joined.HasJoined {
		t.Error("joined viewer must see hasJoined=true")
	}

	outside, err := env.eventSvc.Get(ctx, event.ID, stranger.ID)
	if err != nil {
		t.Fatalf("Get stranger: %v", err)
	}
	if outside.HasJoined == nil || *outside.HasJoined {
		t.Error("non-joined viewer must see hasJoined=false")
	}
}

func TestGetDeactivatedEventRejects(t *testing.T) {
	env := newTestEnv(t)
	event := seedEvent(t, env.db, func(e *gormModels.Event) {
		e.IsDeactivated = true
		e.IsActive = false
	})

	_, err := env.eventSvc.Get(context.Background(), event.ID, "")
	wantRejection(t, err, domain.ReasonDeactivated)
}

func TestEditPrefillAllowsDeactivatedEvents(t *testing.T) {
	env := newTestEnv(t)
	event := seedEvent(t, env.db, func(e *gormModels.Event) {
		e.Name = "Retired Gala"
		e.IsDeactivated = true
		e.IsActive = false
	})

	resp, err := env.eventSvc.EditPrefill(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("EditPrefill: %v", err)
	}
	if resp.Name != "Retired Gala" || !resp.IsDeactivated {
		t.Errorf("prefill = %+v, organizers must still see retired events", resp)
	}
}

func TestListRecommendedRanksInterestMatchesFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env.db, "member")
	sports := seedType(t, env.db, "Sports", nil)
	music := seedType(t, env.db, "Music", nil)

	match := seedEvent(t, env.db, func(e *gormModels.Event) {
		e.Name = "Pickup Basketball"
		e.Types = []gormModels.EventType{sports}
	})
	seedEvent(t, env.db, func(e *gormModels.Event) {
		e.Name = "Jazz Night"
		e.Types = []gormModels.EventType{music}
	})

	if err := env.users.ReplaceInterests(ctx, user.ID, []gormModels.EventType{sports}); err != nil {
		t.Fatalf("seed interests: %v", err)
	}

	resp, err := env.eventSvc.ListRecommended(ctx, user.ID, 1, 20)
	if err != nil {
		t.Fatalf("ListRecommended: %v", err)
	}
	if resp.TotalCount != 2 {
		t.Fatalf("totalCount = %d, the feed ranks rather than filters", resp.TotalCount)
	}
	if resp.Events[0].ID != match.ID {
		t.Errorf("first event = %q, want the interest match ranked first", resp.Events[0].Name)
	}
}
