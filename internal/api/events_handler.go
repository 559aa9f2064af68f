package api

import (
	"net/http"
	"strings"

	"campus-collective/agora/internal/auth"
	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/models/dtos"
)

// ListEvents godoc
// @Summary      List events
// @Description  Returns a paginated event list. Filters by name substring and
// @Description  type names; deactivated events only appear for organizers who
// @Description  ask for them.
// @Tags         Events
// @Produce      json
// @Param        pageNumber  query  int     false  "Page number"  default(1)
// @Param        pageSize    query  int     false  "Page size"    default(10)
// @Param        name        query  string  false  "Name substring filter"
// @Param        eventTypes  query  string  false  "Comma separated type names"
// @Param        sortKey     query  string  false  "MostRecentlyCreated | MostRecentStartDate | MostParticipants | LeastParticipants"
// @Success      200  {object}  responses.APIResponse[dtos.EventListResponse]
// @Failure      400  {object}  responses.APIResponse[dtos.EventListResponse]
// @Router       /api/v1/events [get]
func (h *Handlers) ListEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := dtos.ListEventsQuery{
			NameContains: strings.TrimSpace(r.URL.Query().Get("name")),
			SortKey:      r.URL.Query().Get("sortKey"),
		}

		var ok bool
		if q.PageNumber, ok = intQueryParam(r, "pageNumber"); !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid pageNumber parameter")
			return
		}
		if q.PageSize, ok = intQueryParam(r, "pageSize"); !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid pageSize parameter")
			return
		}

		if raw := r.URL.Query().Get("eventTypes"); raw != "" {
			for _, name := range strings.Split(raw, ",") {
				if name = strings.TrimSpace(name); name != "" {
					q.EventTypeNames = append(q.EventTypeNames, name)
				}
			}
		}

		q.SortActiveFirst = r.URL.Query().Get("sortActiveFirst") == "true"

		// Deactivated events stay hidden from everyone except organizers
		// who explicitly ask.
		claims := auth.GetUserClaims(r.Context())
		if r.URL.Query().Get("includeDeactivated") == "true" && claims != nil && claims.CanManageEvents() {
			q.IncludeDeactivated = true
		}

		list, err := h.deps.Services.Events.List(r.Context(), &q)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Events fetched", list)
	}
}

// GetEvent returns one event. When the caller is authenticated the response
// carries their join status.
func (h *Handlers) GetEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		event, err := h.deps.Services.Events.Get(r.Context(), eventID, viewerID(r))
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Event fetched", event)
	}
}

// CreateEvent godoc
// @Summary      Create an event
// @Tags         Events
// @Accept       json
// @Produce      json
// @Param        body  body  dtos.CreateEventRequest  true  "Event fields"
// @Success      201  {object}  responses.APIResponse[dtos.EventResponse]
// @Failure      400  {object}  responses.APIResponse[dtos.EventResponse]
// @Router       /api/v1/events/create [post]
func (h *Handlers) CreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateEventRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		claims := auth.GetUserClaims(r.Context())
		event, err := h.deps.Services.Events.Create(r.Context(), claims.UserID(), &req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusCreated, "Event created", event)
	}
}

// EditEventPrefill returns the current stored values for the edit form.
// Unlike GetEvent it also serves deactivated events, so organizers can
// still see what a retired event looked like.
func (h *Handlers) EditEventPrefill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		event, err := h.deps.Services.Events.EditPrefill(r.Context(), eventID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Event fetched", event)
	}
}

// EditEvent applies a partial update to an event.
func (h *Handlers) EditEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		var req dtos.EditEventRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		event, err := h.deps.Services.Events.Edit(r.Context(), eventID, &req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Event updated", event)
	}
}

// DeactivateEvent retires an event permanently.
func (h *Handlers) DeactivateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		if err := h.deps.Services.Events.Deactivate(r.Context(), eventID); err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess[struct{}](w, http.StatusOK, constants.StatusDeactivated, nil)
	}
}

// ListRecommendedEvents returns upcoming active events matching the caller's
// interested types.
func (h *Handlers) ListRecommendedEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageNumber, ok := intQueryParam(r, "pageNumber")
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid pageNumber parameter")
			return
		}
		pageSize, ok := intQueryParam(r, "pageSize")
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid pageSize parameter")
			return
		}

		claims := auth.GetUserClaims(r.Context())
		list, err := h.deps.Services.Events.ListRecommended(r.Context(), claims.UserID(), pageNumber, pageSize)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Recommended events fetched", list)
	}
}

// ListEventTypes returns the full type catalog.
func (h *Handlers) ListEventTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		types, err := h.deps.Services.EventTypes.ListTypes(r.Context())
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "Event types fetched", &types)
	}
}
