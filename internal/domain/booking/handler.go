package booking

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

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	customerID := middleware.GetUserID(r.Context())
	if customerID == uuid.Nil {
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

	b, err := h.service.Create(r.Context(), customerID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_CREATE_FAILED", "Failed to create booking")
		return
	}

	response.Created(w, b.ToResponse())
}

// Get handles GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_GET_FAILED", "Failed to load booking")
		return
	}

	response.OK(w, b.ToResponse())
}

// ListMine handles GET /bookings/mine (bookings made as customer)
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	limit, offset := pagination(r)
	bookings, err := h.service.ListForCustomer(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_LIST_FAILED", "Failed to list bookings")
		return
	}

	response.OK(w, toResponses(bookings))
}

// ListReceived handles GET /bookings/received (bookings on my listings)
func (h *Handler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	limit, offset := pagination(r)
	bookings, err := h.service.ListForProvider(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_LIST_FAILED", "Failed to list bookings")
		return
	}

	response.OK(w, toResponses(bookings))
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.Cancel(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_CANCEL_FAILED", "Failed to cancel booking")
		return
	}

	response.OK(w, b.ToResponse())
}

// UpdateStatus handles PATCH /bookings/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	b, err := h.service.UpdateStatus(r.Context(), userID, id, Status(req.Status))
	if err != nil {
		h.writeServiceError(w, r, err, "BOOKING_STATUS_FAILED", "Failed to update booking status")
		return
	}

	response.OK(w, b.ToResponse())
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected):
		response.SlotRejected(w, rejected.Reason)
	case errors.Is(err, ErrSlotTaken):
		response.Conflict(w, ErrSlotTaken.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, ErrNotFound.Error())
	case errors.Is(err, ErrListingNotFound):
		response.NotFound(w, ErrListingNotFound.Error())
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrNotProvider), errors.Is(err, ErrOwnListing):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrAlreadyCancelled):
		response.Conflict(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return limit, (page - 1) * limit
}

func toResponses(bookings []*Booking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ToResponse())
	}
	return out
}
