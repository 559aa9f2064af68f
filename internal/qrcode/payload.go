package qrcode

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payload is the decrypted content of an event attendance token.
type Payload struct {
	EventID  uuid.UUID
	IssuedAt time.Time
}

// EncodePayload renders the canonical plaintext "<eventId>|<unixMillis>".
func EncodePayload(eventID uuid.UUID, issuedAt time.Time) string {
	return eventID.String() + "|" + strconv.FormatInt(issuedAt.UnixMilli(), 10)
}

// DecodePayload parses a plaintext produced by EncodePayload. The split is on
// the first pipe; everything after it must be an integer millisecond stamp.
func DecodePayload(s string) (Payload, error) {
	idPart, msPart, found := strings.Cut(s, "|")
	if !found {
		return Payload{}, fmt.Errorf("payload missing separator")
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return Payload{}, fmt.Errorf("payload event id: %w", err)
	}
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return Payload{}, fmt.Errorf("payload timestamp: %w", err)
	}
	return Payload{EventID: id, IssuedAt: time.UnixMilli(ms)}, nil
}
