package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskhub/taskhub-backend/internal/task/service"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/httputil"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	service *service.TaskService
	logger  *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc *service.TaskService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		service: svc,
		logger:  log,
	}
}

// Create creates a new task
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	var req service.CreateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), p, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, task)
}

// Get returns a single task
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	task, err := h.service.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

// List lists tasks visible to the caller
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	req := &service.ListTasksRequest{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Page:     queryInt(r, "page", 1),
		PerPage:  queryInt(r, "per_page", 0),
	}

	list, err := h.service.List(r.Context(), p, req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := (list.Total + list.PerPage - 1) / list.PerPage
	httputil.JSONWithMeta(w, http.StatusOK, list.Tasks, &httputil.Meta{
		Page:       list.Page,
		PerPage:    list.PerPage,
		Total:      int64(list.Total),
		TotalPages: totalPages,
	})
}

// Update updates a task
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	var req service.UpdateTaskRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	task, err := h.service.Update(r.Context(), p, chi.URLParam(r, "id"), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

// Delete removes a task
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	if err := h.service.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
