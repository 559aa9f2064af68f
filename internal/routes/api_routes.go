package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"campus-collective/agora/internal/api"
	"campus-collective/agora/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers, jobsHandler *api.JobsHandler) {

	userRepo := deps.Repo.Users
	keysRepo := deps.Repo.Keys
	cacheSvc := deps.Services.Cache

	r.Route("/api/v1", func(v1 chi.Router) {

		// Event reads: identity is parsed when present (join status on event
		// detail) but anonymous requests pass through
		v1.Group(func(public chi.Router) {
			public.Use(middleware.OptionalAuthMiddleware(userRepo, keysRepo, cacheSvc))

			public.Get("/events", handlers.ListEvents())
			public.Get("/events/types", handlers.ListEventTypes())
			public.Get("/events/{eventId}", handlers.GetEvent())
		})

		// Authenticated users (bearer token or API key)
		v1.Group(func(user chi.Router) {
			user.Use(middleware.AuthMiddleware(userRepo, keysRepo, cacheSvc))

			user.Get("/events/recommended", handlers.ListRecommendedEvents())
			user.Get("/users/me/participations", handlers.MyParticipations())
			user.Put("/users/me/interests", handlers.UpdateInterests())
			user.Post("/events/{eventId}/leave", handlers.LeaveEvent())

			// Scan-adjacent endpoints get a tighter per-IP budget on top of
			// the global limiter
			user.Group(func(scan chi.Router) {
				scan.Use(httprate.LimitByIP(10, 1*time.Minute))

				scan.Post("/events/{eventId}/join", handlers.JoinEvent())
				scan.Post("/events/{eventId}/verify", handlers.VerifyAttendance())
				scan.Post("/events/check-qrcode", handlers.CheckQRCode())
			})

			// Organizer group (organizer or admin role)
			user.Group(func(organizer chi.Router) {
				organizer.Use(middleware.RequireOrganizer())

				organizer.Post("/events/create", handlers.CreateEvent())
				organizer.Get("/events/{eventId}/edit", handlers.EditEventPrefill())
				organizer.Post("/events/{eventId}/edit", handlers.EditEvent())
				organizer.Post("/events/{eventId}/deactivate", handlers.DeactivateEvent())
				organizer.Get("/events/{eventId}/qrcode", handlers.GetOrCreateQRCode())
				organizer.Post("/events/{eventId}/qrcode", handlers.GetOrCreateQRCode())
				organizer.Get("/events/{eventId}/qrcode/image", handlers.QRCodeImage())
				organizer.Post("/uploads/event-image", handlers.UploadEventImage())

				// Admin-only group
				organizer.Group(func(admin chi.Router) {
					admin.Use(middleware.RequireAdmin())

					admin.Post("/admin/jobs/event-expiry", jobsHandler.TriggerEventExpiry())
					admin.Get("/admin/jobs/status", jobsHandler.JobsStatus())
					admin.Post("/admin/keys", handlers.IssueAPIKey())
					admin.Post("/admin/keys/revoke", handlers.RevokeAPIKey())
				})
			})
		})
	})
}
