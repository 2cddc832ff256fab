package payment

import (
	"github.com/go-chi/chi/v5"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/jwt"
)

// RegisterRoutes registers payment routes. All require authentication.
func RegisterRoutes(r chi.Router, handler *Handler, jwtService *jwt.Service) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(middleware.Auth(jwtService))

		r.Post("/", handler.Pay)
		r.Get("/", handler.History)
		r.Get("/invoice/{bookingID}", handler.GetInvoice)
	})
}
