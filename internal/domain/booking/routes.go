package booking

import (
	"github.com/go-chi/chi/v5"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/jwt"
)

// RegisterRoutes registers booking routes. All routes require authentication.
func RegisterRoutes(r chi.Router, handler *Handler, jwtService *jwt.Service) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(jwtService))

		r.Post("/", handler.Create)
		r.Get("/mine", handler.ListMine)
		r.Get("/received", handler.ListReceived)
		r.Get("/{id}", handler.Get)
		r.Post("/{id}/cancel", handler.Cancel)
		r.Patch("/{id}/status", handler.UpdateStatus)
	})
}
