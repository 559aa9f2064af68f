package api

import (
	"net/http"
	"strconv"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/models/dtos"
)

// GetOrCreateQRCode godoc
// @Summary      Issue or fetch the event's QR code
// @Description  Returns the stored ciphertext/IV pair, minting it on first
// @Description  call. Repeated calls always return the same pair.
// @Tags         QRCode
// @Produce      json
// @Param        eventId  path  string  true  "Event ID"
// @Success      200  {object}  responses.APIResponse[dtos.QRCodeResponse]
// @Failure      400,404,500  {object}  responses.APIResponse[dtos.QRCodeResponse]
// @Router       /api/v1/events/{eventId}/qrcode [post]
func (h *Handlers) GetOrCreateQRCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		qr, err := h.deps.Services.Events.GetOrCreateQRCode(r.Context(), eventID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "QR code ready", qr)
	}
}

// QRCodeImage serves the event's QR code as a raw PNG, for printing or
// embedding without base64 plumbing on the client side.
func (h *Handlers) QRCodeImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := eventIDFromPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidEventID)
			return
		}

		png, err := h.deps.Services.Events.QRCodePNG(r.Context(), eventID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

// CheckQRCode godoc
// @Summary      Preview a scanned QR code
// @Description  Reports whether a scanned code would verify against the event
// @Description  named in the body, without confirming anything. Scanner apps
// @Description  use this to show green/red before the user commits.
// @Tags         QRCode
// @Accept       json
// @Produce      json
// @Param        body  body  dtos.CheckQRCodeRequest  true  "Event id plus scanned string or PNG"
// @Success      200  {object}  responses.APIResponse[dtos.CheckQRCodeResponse]
// @Failure      400,404  {object}  responses.APIResponse[dtos.CheckQRCodeResponse]
// @Router       /api/v1/events/check-qrcode [post]
func (h *Handlers) CheckQRCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CheckQRCodeRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := h.deps.Services.Events.CheckQRCode(r.Context(), &req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, "QR code checked", result)
	}
}
