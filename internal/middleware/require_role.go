package middleware

import (
	"net/http"

	"campus-collective/agora/internal/auth"
	"campus-collective/agora/internal/common"
)

// RequireOrganizer gates event management endpoints. Admins pass as well.
func RequireOrganizer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.CanManageEvents() {
				common.RespondPermissionDenied(w, "organizer")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates operational endpoints (key issuance, manual job runs).
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.IsAdmin() {
				common.RespondPermissionDenied(w, "admin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
