package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/servly/servly-api/internal/middleware"
	"github.com/servly/servly-api/internal/pkg/errorhandler"
	"github.com/servly/servly-api/internal/pkg/response"
	"github.com/servly/servly-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Conflict(w, err.Error())
		case errors.Is(err, ErrInvalidRole):
			response.BadRequest(w, err.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REGISTER_FAILED", "Failed to register", err)
		}
		return
	}

	response.Created(w, resp)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login", err)
		return
	}

	response.OK(w, resp)
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrRefreshTokenRequired):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrInvalidRefreshToken), errors.Is(err, ErrUserNotFound):
			response.Unauthorized(w, ErrInvalidRefreshToken.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh tokens", err)
		}
		return
	}

	response.OK(w, resp)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout", err)
		return
	}

	response.OK(w, map[string]string{"message": "logged out"})
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resp, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "ME_FAILED", "Failed to load current user", err)
		return
	}

	response.OK(w, resp)
}
