package listing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/errorhandler"
	"github.com/servly/servly-api/internal/pkg/imaging"
	"github.com/servly/servly-api/internal/pkg/response"
	"github.com/servly/servly-api/internal/pkg/validator"
)

// Handler handles listing HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new listing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /listings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
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

	resp, err := h.service.Create(r.Context(), providerID, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "LISTING_CREATE_FAILED", "Failed to create listing")
		return
	}

	response.Created(w, resp)
}

// Get handles GET /listings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing id")
		return
	}

	resp, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "LISTING_GET_FAILED", "Failed to load listing")
		return
	}

	response.OK(w, resp)
}

// List handles GET /listings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	listings, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err, "LISTING_LIST_FAILED", "Failed to list listings")
		return
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, listings, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// ListMine handles GET /listings/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	listings, err := h.service.ListByProvider(r.Context(), providerID)
	if err != nil {
		h.writeServiceError(w, r, err, "LISTING_LIST_FAILED", "Failed to list listings")
		return
	}

	response.OK(w, listings)
}

// Update handles PUT /listings/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Update(r.Context(), providerID, id, &req)
	if err != nil {
		h.writeServiceError(w, r, err, "LISTING_UPDATE_FAILED", "Failed to update listing")
		return
	}

	response.OK(w, resp)
}

// Delete handles DELETE /listings/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing id")
		return
	}

	if err := h.service.Delete(r.Context(), providerID, id); err != nil {
		h.writeServiceError(w, r, err, "LISTING_DELETE_FAILED", "Failed to delete listing")
		return
	}

	response.NoContent(w)
}

// UploadPhoto handles POST /listings/{id}/photo (multipart form, "photo" field)
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	providerID := middleware.GetUserID(r.Context())
	if providerID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxFileSize)
	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Missing photo file")
		return
	}
	defer file.Close()

	resp, err := h.service.AttachPhoto(r.Context(), providerID, id, header.Filename, file)
	if err != nil {
		h.writeServiceError(w, r, err, "LISTING_PHOTO_FAILED", "Failed to upload photo")
		return
	}

	response.OK(w, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	var hoursErr *HoursError
	switch {
	case errors.As(err, &hoursErr):
		response.ValidationError(w, hoursErr.Details)
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, ErrNotFound.Error())
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, ErrNotOwner.Error())
	case errors.Is(err, ErrUnsupportedPhoto), errors.Is(err, ErrInvalidPhoto):
		response.BadRequest(w, err.Error())
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, message, err)
	}
}
