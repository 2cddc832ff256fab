package chat

import (
	"github.com/go-chi/chi/v5"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/jwt"
)

// RegisterRoutes registers chat routes. All routes require authentication.
func RegisterRoutes(r chi.Router, handler *Handler, jwtService *jwt.Service) {
	r.Route("/chat", func(r chi.Router) {
		r.Use(middleware.Auth(jwtService))

		r.Post("/conversations", handler.StartConversation)
		r.Get("/conversations", handler.ListConversations)
		r.Get("/conversations/{id}/messages", handler.GetMessages)
		r.Post("/conversations/{id}/messages", handler.SendMessage)
		r.Post("/conversations/{id}/read", handler.MarkAsRead)
		r.Get("/unread", handler.GetUnreadCount)
	})
}
