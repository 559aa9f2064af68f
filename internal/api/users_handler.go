package api

import (
	"net/http"

	"campus-collective/agora/internal/models/dtos"
)

// MyParticipations returns the caller's participation history with total
// credited hours. ?active=true narrows to current joins.
func (h *Handlers) MyParticipations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := r.URL.Query().Get("active") == "true"

		result, err := h.deps.Services.Participations.ListUserParticipations(r.Context(), viewerID(r), activeOnly)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Participations fetched", result)
	}
}

// UpdateInterests replaces the caller's interested-type set. An empty list
// clears it, which empties the recommended feed.
func (h *Handlers) UpdateInterests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateInterestsRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		types, err := h.deps.Services.EventTypes.ReplaceUserInterests(r.Context(), viewerID(r), req.EventTypeIDs)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Interests updated", &types)
	}
}
