package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taskhub/taskhub-backend/internal/docimport/service"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/httputil"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// allowedExtensions is the closed set of importable document types.
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// ImportHandler handles document import endpoints
type ImportHandler struct {
	service  *service.ImportService
	maxBytes int64
	logger   *logger.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(svc *service.ImportService, maxBytes int64, log *logger.Logger) *ImportHandler {
	return &ImportHandler{
		service:  svc,
		maxBytes: maxBytes,
		logger:   log,
	}
}

// Import accepts a multipart document upload and runs the import pipeline
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, errors.BadRequest("a file is required in the 'file' field"))
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if !allowedExtensions[ext] {
		httputil.Error(w, errors.Validation(map[string]string{
			"file": "must be a pdf, jpg, jpeg or png document",
		}))
		return
	}

	uploaderID := p.ID
	record, err := h.service.Import(r.Context(), &service.Upload{
		Filename:  header.Filename,
		Extension: ext,
		Content:   file,
	}, &uploaderID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, record)
}

// Get returns a single imported record
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	record, err := h.service.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, record)
}

// List lists imported records visible to the caller
func (h *ImportHandler) List(w http.ResponseWriter, r *http.Request) {
	p := principal.FromContext(r.Context())
	if p == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	records, err := h.service.List(r.Context(), p)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, records)
}
