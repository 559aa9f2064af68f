package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped at the HTTP edge. Storage and crypto internals are
// wrapped into one of these before they leave the service layer.
var (
	ErrNotFound       = errors.New("not found")
	ErrConfiguration  = errors.New("configuration error")
	ErrTransientStore = errors.New("transient store error")
)

// Rejection reasons are part of the API contract. Clients match on the exact
// string, so these never change spelling.
const (
	ReasonDeactivated        = "deactivated"
	ReasonNotActive          = "not active"
	ReasonAlreadyJoined      = "already joined"
	ReasonFull               = "full"
	ReasonNotJoined          = "hasn't joined"
	ReasonAlreadyConfirmed   = "already confirmed"
	ReasonInvalidCode        = "invalid code"
	ReasonAlreadyDeactivated = "already deactivated"
	ReasonNoEventTypes       = "no event types found"
)

// Rejection is a business-rule refusal. It maps to 400 and carries one of the
// Reason* constants.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return r.Reason }

// Reject builds a Rejection error for the given reason.
func Reject(reason string) error {
	return &Rejection{Reason: reason}
}

// RejectionReason unwraps the stable reason string from err, if it carries one.
func RejectionReason(err error) (string, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

// NotFound wraps ErrNotFound with the entity that was missing.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// Transient marks a storage failure as retryable while keeping the cause in
// the message for logs.
func Transient(op string, cause error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrTransientStore, cause)
}

// Config marks a boot or key-material problem.
func Config(detail string) error {
	return fmt.Errorf("%s: %w", detail, ErrConfiguration)
}
