package constants

const (
	StatusJoined      = "Joined event"
	StatusLeft        = "Left event"
	StatusConfirmed   = "Attendance confirmed"
	StatusDeactivated = "Event deactivated"
)

const (
	MsgInvalidEventID   = "Invalid event id"
	MsgInvalidSortKey   = "invalid sort key"
	MsgUnauthorized     = "Unauthorized"
	MsgStoreUnavailable = "Storage temporarily unavailable, retry later"
)
