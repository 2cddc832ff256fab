package payment

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

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Pay handles POST /payments
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	p, err := h.service.Pay(r.Context(), userID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "PAYMENT_FAILED", "Failed to process payment")
		return
	}

	response.Created(w, p.ToInvoice())
}

// GetInvoice handles GET /payments/invoice/{bookingID}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	p, err := h.service.Invoice(r.Context(), userID, bookingID)
	if err != nil {
		h.writeServiceError(w, r, err, "INVOICE_FAILED", "Failed to load invoice")
		return
	}

	response.OK(w, p.ToInvoice())
}

// History handles GET /payments
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.service.History(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err, "PAYMENT_HISTORY_FAILED", "Failed to list payments")
		return
	}

	items := make([]*InvoiceResponse, len(payments))
	for i, p := range payments {
		items[i] = p.ToInvoice()
	}

	response.OK(w, items)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	var cardErr *CardError
	switch {
	case errors.As(err, &cardErr):
		response.ValidationError(w, cardErr.Details)
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrPaymentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotCustomer):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrBookingNotPayable), errors.Is(err, ErrAlreadyPaid):
		response.Conflict(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
