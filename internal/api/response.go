package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/domain"
	"campus-collective/agora/internal/logging"
	"campus-collective/agora/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, message string, data *T) {
	resp := responses.APIResponse[T]{
		Status:  string(constants.APIStatusOk),
		Message: message,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := responses.APIResponse[any]{
		Status: string(constants.APIStatusError),
		Error:  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithDomainError maps the error taxonomy onto status codes. Business
// rejections keep their stable reason string; internals are logged and the
// client gets a generic message.
func respondWithDomainError(w http.ResponseWriter, err error) {
	if reason, ok := domain.RejectionReason(err); ok {
		respondWithError(w, http.StatusBadRequest, reason)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConfiguration):
		logging.Error("configuration error", "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "Server configuration error")
	case errors.Is(err, domain.ErrTransientStore):
		logging.Error("storage error", "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, constants.MsgStoreUnavailable)
	default:
		logging.Error("unhandled error", "error", err.Error())
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
