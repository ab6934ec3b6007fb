package handler

import (
	"net/http"

	"github.com/taskhub/taskhub-backend/internal/user/service"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/httputil"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	service *service.UserService
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  log,
	}
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	user, err := h.service.GetByID(r.Context(), p.ID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user.Profile())
}

// Update updates the authenticated user's profile
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	var req service.UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), p.ID, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user.Profile())
}

// List lists all users (admin only)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())

	users, err := h.service.List(r.Context(), p)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, users)
}
