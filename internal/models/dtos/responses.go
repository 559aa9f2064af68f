package dtos

// APIResponse is the untyped envelope for responses written outside a
// handler, such as middleware rejections.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// EventTypeResponse is one category tag. ParentID is nil for roots.
type EventTypeResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"`
}

// EventResponse mirrors the event contract the mobile and web clients were
// built against: camelCase fields, epoch-millisecond times, derived
// participantsCount, and hasJoined only when a viewer is signed in.
type EventResponse struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	ActivityHours     float64             `json:"activityHours"`
	TotalSeats        int                 `json:"totalSeats"`
	StartTime         int64               `json:"startTime"`
	EndTime           int64               `json:"endTime"`
	Location          string              `json:"location"`
	IsActive          bool                `json:"isActive"`
	IsDeactivated     bool                `json:"isDeactivated"`
	HasQRCode         bool                `json:"hasQrCode"`
	EventTypes        []EventTypeResponse `json:"eventTypes"`
	CreatedBy         string              `json:"createdBy"`
	ParticipantsCount int64               `json:"participantsCount"`
	HasJoined         *bool               `json:"hasJoined,omitempty"`
	CreatedAt         int64               `json:"createdAt"`
	UpdatedAt         int64               `json:"updatedAt"`
}

// EventListResponse carries one page plus the pre-pagination total.
type EventListResponse struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"totalCount"`
	PageNumber int             `json:"pageNumber"`
	PageSize   int             `json:"pageSize"`
}

// QRCodeResponse returns the stored attendance pair. ImageBase64 is a PNG
// rendering of the ciphertext for direct display.
type QRCodeResponse struct {
	QRCodeString string `json:"qrCodeString"`
	QRCodeIv     string `json:"qrCodeIv"`
	ImageBase64  string `json:"imageBase64,omitempty"`
}

// CheckQRCodeResponse is the preview verdict. EventID and IssuedAt are only
// present for valid codes; invalid codes carry no detail about why.
type CheckQRCodeResponse struct {
	IsValid  bool   `json:"isValid"`
	EventID  string `json:"eventId,omitempty"`
	IssuedAt int64  `json:"issuedAt,omitempty"`
}

// ParticipationResponse is one row of a user's participation history.
type ParticipationResponse struct {
	ID          string         `json:"id"`
	EventID     string         `json:"eventId"`
	UserID      string         `json:"userId"`
	IsActive    bool           `json:"isActive"`
	IsConfirmed bool           `json:"isConfirmed"`
	CreatedAt   int64          `json:"createdAt"`
	Event       *EventResponse `json:"event,omitempty"`
}

// UserParticipationsResponse lists history plus the hours already credited
// to the activity ledger.
type UserParticipationsResponse struct {
	Participations []ParticipationResponse `json:"participations"`
	TotalHours     float64                 `json:"totalHours"`
}

// UploadResponse returns where the stored image is served from.
type UploadResponse struct {
	URL string `json:"url"`
}

// APIKeyIssuedResponse returns a freshly minted scanner key. The plaintext
// key appears here once; only its status is readable afterwards.
type APIKeyIssuedResponse struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Label  string `json:"label"`
	UserID string `json:"userId"`
}

// SweepResult reports one manual expiry-sweep run.
type SweepResult struct {
	Expired     int64  `json:"expired"`
	TriggeredBy string `json:"triggeredBy"`
	DurationMs  int64  `json:"durationMs"`
}

// JobsStatusResponse summarizes background processing health for admins.
type JobsStatusResponse struct {
	LedgerQueueLength   int64 `json:"ledgerQueueLength"`
	LedgerPendingCount  int64 `json:"ledgerPendingCount"`
	LedgerQueueAttached bool  `json:"ledgerQueueAttached"`
}
