package review

import (
	"github.com/go-chi/chi/v5"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/jwt"
)

// RegisterRoutes registers review routes. Listing and summary are public;
// creating and deleting require authentication.
func RegisterRoutes(r chi.Router, handler *Handler, jwtService *jwt.Service) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", handler.ListByListing)
		r.Get("/summary", handler.GetSummary)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwtService))
			r.Post("/", handler.Create)
			r.Delete("/{id}", handler.Delete)
		})
	})
}
