package dtos

// CreateEventRequest carries the organizer-supplied fields for a new event.
// Times travel as epoch milliseconds, matching the mobile client contract.
type CreateEventRequest struct {
	Name           string   `json:"name" validate:"required,min=3,max=120"`
	Description    string   `json:"description" validate:"max=2000"`
	ImageURL       string   `json:"imageUrl" validate:"omitempty,url"`
	ActivityHours  float64  `json:"activityHours" validate:"gte=0"`
	TotalSeats     int      `json:"totalSeats" validate:"required,gte=1"`
	StartTime      int64    `json:"startTime" validate:"required,gt=0"`
	EndTime        int64    `json:"endTime" validate:"required,gtfield=StartTime"`
	Location       string   `json:"location" validate:"required,max=200"`
	EventTypeNames []string `json:"eventTypes" validate:"omitempty,dive,min=1"`
}

// EditEventRequest applies a partial update. Absent fields keep their stored
// values; the QR pair and createdBy are never editable. Start/end ordering
// against stored values is checked in the service since either side may be
// omitted here.
type EditEventRequest struct {
	Name           *string   `json:"name" validate:"omitempty,min=3,max=120"`
	Description    *string   `json:"description" validate:"omitempty,max=2000"`
	ImageURL       *string   `json:"imageUrl" validate:"omitempty,url"`
	ActivityHours  *float64  `json:"activityHours" validate:"omitempty,gte=0"`
	TotalSeats     *int      `json:"totalSeats" validate:"omitempty,gte=1"`
	StartTime      *int64    `json:"startTime" validate:"omitempty,gt=0"`
	EndTime        *int64    `json:"endTime" validate:"omitempty,gt=0"`
	Location       *string   `json:"location" validate:"omitempty,max=200"`
	IsActive       *bool     `json:"isActive"`
	EventTypeNames *[]string `json:"eventTypes"`
}

// CheckQRCodeRequest previews a scanned code without confirming anything.
// Scanner apps send the decoded string; the web client may send a base64
// PNG screenshot instead and let the server extract the code.
type CheckQRCodeRequest struct {
	EventID         string `json:"eventId" validate:"required,uuid4"`
	EncryptedString string `json:"encryptedString" validate:"required_without=ImageBase64"`
	ImageBase64     string `json:"imageBase64" validate:"omitempty,base64"`
}

// VerifyAttendanceRequest confirms the caller's attendance at the event in
// the URL. The payload is only the scanned ciphertext; the server supplies
// the IV from the event record.
type VerifyAttendanceRequest struct {
	EncryptedString string `json:"encryptedString" validate:"required"`
}

// UpdateInterestsRequest replaces the caller's interested-type set.
type UpdateInterestsRequest struct {
	EventTypeIDs []string `json:"eventTypeIds" validate:"dive,uuid4"`
}

// IssueAPIKeyRequest mints a scanner key acting as the given device user.
type IssueAPIKeyRequest struct {
	Label  string `json:"label" validate:"required,min=3,max=80"`
	UserID string `json:"userId" validate:"required,uuid4"`
}

// RevokeAPIKeyRequest disables a key by its plaintext value.
type RevokeAPIKeyRequest struct {
	Key string `json:"key" validate:"required"`
}

// ListEventsQuery is parsed from GET /events query parameters. Zero values
// mean "not supplied"; the service applies defaults.
type ListEventsQuery struct {
	PageNumber         int
	PageSize           int
	NameContains       string
	EventTypeNames     []string
	SortKey            string
	SortActiveFirst    bool
	IncludeDeactivated bool
}
