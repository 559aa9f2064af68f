package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"campus-collective/agora/internal/models/dtos"
)

// IssueAPIKey godoc
// @Summary      Issue a scanner API key
// @Description  Mints a key for a kiosk device. The plaintext key is returned
// @Description  once and cannot be recovered later.
// @Tags         admin,keys
// @Accept       json
// @Produce      json
// @Param        body  body  dtos.IssueAPIKeyRequest  true  "Device label and acting user"
// @Success      201  {object}  responses.APIResponse[dtos.APIKeyIssuedResponse]
// @Failure      400,500  {object}  responses.APIResponse[dtos.APIKeyIssuedResponse]
// @Router       /api/v1/admin/keys [post]
func (h *Handlers) IssueAPIKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.IssueAPIKeyRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			respondWithDomainError(w, err)
			return
		}
		key := hex.EncodeToString(raw)

		id, err := h.deps.Repo.Keys.Create(r.Context(), key, req.Label, req.UserID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, "API key issued", &dtos.APIKeyIssuedResponse{
			ID:     id,
			Key:    key,
			Label:  req.Label,
			UserID: req.UserID,
		})
	}
}

// RevokeAPIKey disables a key. Revoked keys fail auth as inactive.
func (h *Handlers) RevokeAPIKey() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RevokeAPIKeyRequest
		if err := decodeAndValidate(r.Body, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := h.deps.Repo.Keys.Revoke(r.Context(), req.Key); err != nil {
			respondWithDomainError(w, err)
			return
		}
		respondWithSuccess[struct{}](w, http.StatusOK, "API key revoked", nil)
	}
}
