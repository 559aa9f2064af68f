package api

import (
	"net/http"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/models/dtos"
)

// JoinResult is the payload returned by a successful join.
type JoinResult struct {
	ParticipationID string `json:"participationId"`
}

// JoinEvent godoc
// @Summary      Join an event
// @Description  Claims a seat for the authenticated user. Fails when the
// @Description  event is deactivated, not active, full, or already joined.
// @Tags         Participation
// @Produce      json
// @Param        eventId  path  string  true  "Event ID"
// @Success      201  {object}  responses.APIResponse[JoinResult]
// @Failure      400,404  {object}  responses.APIResponse[JoinResult]
// @Router       /api/v1/events/{eventId}/join [post]
func (h *Handlers) JoinEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		participationID, err := h.deps.Services.Participations.Join(r.Context(), eventID, viewerID(r))
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, constants.StatusJoined, &JoinResult{ParticipationID: participationID})
	}
}

// LeaveEvent withdraws the caller's active participation. The row is kept
// for the audit trail; only its active flag drops.
func (h *Handlers) LeaveEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		if err := h.deps.Services.Participations.Leave(r.Context(), eventID, viewerID(r)); err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess[struct{}](w, http.StatusOK, constants.StatusLeft, nil)
	}
}

// VerifyAttendance godoc
// @Summary      Verify attendance with a scanned QR code
// @Description  Confirms the caller's attendance when the scanned ciphertext
// @Description  matches the event's issued code.
// @Tags         Participation
// @Accept       json
// @Produce      json
// @Param        eventId  path  string                        true  "Event ID"
// @Param        body     body  dtos.VerifyAttendanceRequest  true  "Scanned code"
// @Success      200  {object}  responses.APIResponse[struct{}]
// @Failure      400,404  {object}  responses.APIResponse[struct{}]
// @Router       /api/v1/events/{eventId}/verify [post]
func (h *Handlers) VerifyAttendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		var req dtos.VerifyAttendanceRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := h.deps.Services.Participations.VerifyAttendance(r.Context(), eventID, viewerID(r), req.EncryptedString); err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess[struct{}](w, http.StatusOK, constants.StatusConfirmed, nil)
	}
}
