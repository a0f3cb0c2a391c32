package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"lasanalyzer/internal/config"
	apierrors "lasanalyzer/internal/errors"
)

// multipartMemory is the part of a multipart form held in memory before spilling to disk.
const multipartMemory = 8 << 20

// UploadHandler accepts LAS uploads.
type UploadHandler struct {
	service      WellService
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates an upload handler. maxBytes caps the request body; zero
// disables the cap.
func NewUploadHandler(service WellService, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:      service,
		maxBytes:     maxBytes,
		logger:       logger.With(slog.String("component", "upload_handler")),
		errorHandler: errorHandler,
	}
}

// Upload handles POST /api/upload-las
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(config.UploadFormField)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(fmt.Errorf("read upload: %w", err)))
		return
	}

	h.logger.InfoContext(r.Context(), "LAS upload received",
		slog.String("request_id", reqID),
		slog.String("file_name", header.Filename),
		slog.Int64("size", header.Size),
	)

	result, err := h.service.Ingest(r.Context(), header.Filename, content)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	render.JSON(w, r, result)
}
