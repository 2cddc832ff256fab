package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/errorhandler"
	"github.com/servly/servly-api/internal/pkg/response"
	"github.com/servly/servly-api/internal/pkg/validator"
)

// Handler handles review HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new review handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reviews
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	rev, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "REVIEW_CREATE_FAILED", "Failed to create review")
		return
	}

	response.Created(w, rev.ToResponse())
}

// ListByListing handles GET /reviews?listing_id=X
func (h *Handler) ListByListing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listingID, err := uuid.Parse(q.Get("listing_id"))
	if err != nil {
		response.BadRequest(w, "invalid listing_id")
		return
	}

	page, limit := 1, 10
	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}
	offset := (page - 1) * limit

	reviews, total, err := h.service.ListByListing(r.Context(), listingID, limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err, "REVIEW_LIST_FAILED", "Failed to list reviews")
		return
	}

	items := make([]*ReviewResponse, len(reviews))
	for i := range reviews {
		items[i] = reviews[i].ToResponse()
	}

	response.WithMeta(w, items, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   (total + limit - 1) / limit,
		HasNext: page*limit < total,
		HasPrev: page > 1,
	})
}

// GetSummary handles GET /reviews/summary?listing_id=X
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(r.URL.Query().Get("listing_id"))
	if err != nil {
		response.BadRequest(w, "invalid listing_id")
		return
	}

	summary, err := h.service.Summary(r.Context(), listingID)
	if err != nil {
		h.writeServiceError(w, r, err, "REVIEW_SUMMARY_FAILED", "Failed to load rating summary")
		return
	}

	response.OK(w, summary)
}

// Delete handles DELETE /reviews/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, reviewID); err != nil {
		h.writeServiceError(w, r, err, "REVIEW_DELETE_FAILED", "Failed to delete review")
		return
	}

	response.NoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotCustomer), errors.Is(err, ErrNotAuthor):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrBookingNotComplete), errors.Is(err, ErrAlreadyReviewed):
		response.Conflict(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
