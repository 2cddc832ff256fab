package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/servly/servly-api/internal/middleware"
)

// Routes returns listing router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public browse/read
	r.Get("/", h.List)

	// Provider-owned operations
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/mine", h.ListMine)
		r.With(middleware.RequireProvider()).Post("/", h.Create)
		r.With(middleware.RequireProvider()).Put("/{id}", h.Update)
		r.With(middleware.RequireProvider()).Post("/{id}/photo", h.UploadPhoto)
		r.With(middleware.RequireProvider()).Delete("/{id}", h.Delete)
	})

	r.Get("/{id}", h.Get)

	return r
}
