package common

import (
	"encoding/json"
	"net/http"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/logging"
	"campus-collective/agora/internal/models/dtos"
)

// RespondPermissionDenied sends a 403 naming the role the caller lacks.
func RespondPermissionDenied(w http.ResponseWriter, requiredRole string) {
	response := dtos.APIResponse{
		Status:  string(constants.APIStatusError),
		Message: "Permission denied. Required role: " + requiredRole,
	}

	writeJSON(w, http.StatusForbidden, response)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
