package analysis

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/jwt"
	"github.com/servly/servly-api/internal/pkg/response"
)

const dateLayout = "2006-01-02"

// Handler handles analysis HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates analysis handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStats handles GET /analysis/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	stats, err := h.service.GetProviderStats(r.Context(), providerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

// GetDailyRevenue handles GET /analysis/daily-revenue?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetDailyRevenue(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	q := r.URL.Query()
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	if raw := q.Get("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.BadRequest(w, "invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := q.Get("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.BadRequest(w, "invalid to date, expected YYYY-MM-DD")
			return
		}
		to = parsed
	}
	if to.Before(from) {
		response.BadRequest(w, "to date must not be earlier than from date")
		return
	}

	points, err := h.service.GetDailyRevenue(r.Context(), providerID, from, to)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, points)
}

// GetBookingsByListing handles GET /analysis/bookings-by-listing
func (h *Handler) GetBookingsByListing(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	counts, err := h.service.GetBookingsByListing(r.Context(), providerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, counts)
}

// RegisterRoutes registers analysis routes, provider-only.
func RegisterRoutes(r chi.Router, handler *Handler, jwtService *jwt.Service) {
	r.Route("/analysis", func(r chi.Router) {
		r.Use(middleware.Auth(jwtService))
		r.Use(middleware.RequireProvider())

		r.Get("/stats", handler.GetStats)
		r.Get("/daily-revenue", handler.GetDailyRevenue)
		r.Get("/bookings-by-listing", handler.GetBookingsByListing)
	})
}
