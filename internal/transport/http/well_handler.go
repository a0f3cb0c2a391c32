package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "lasanalyzer/internal/errors"
	"lasanalyzer/internal/exporter"
	appmw "lasanalyzer/internal/middleware"
	"lasanalyzer/internal/services"
	apiv1 "lasanalyzer/pkg/contracts/api/v1"
)

// DeleteMessage is returned after a well is removed.
const DeleteMessage = "Well deleted successfully"

var (
	wellIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	exportFormats   = []string{string(exporter.FormatCSV), string(exporter.FormatXLSX)}
)

// WellHandler serves stored wells.
type WellHandler struct {
	service      WellService
	query        *appmw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewWellHandler creates a well handler.
func NewWellHandler(service WellService, query *appmw.QueryParamValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *WellHandler {
	return &WellHandler{
		service:      service,
		query:        query,
		logger:       logger.With(slog.String("component", "well_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /wells routes. interpret, when set, is mounted at
// POST /{id}/interpret behind the well id check.
func (h *WellHandler) Routes(interpret http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.WellCtx)
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Get("/curves", h.Curves)
		r.Get("/data", h.Data)
		r.Get("/export", h.Export)
		if interpret != nil {
			r.Method(http.MethodPost, "/interpret", interpret)
		}
	})
	return r
}

// WellCtx rejects malformed well ids.
func (h *WellHandler) WellCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !wellIDPattern.MatchString(chi.URLParam(r, "id")) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Invalid well id"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List handles GET /api/wells
func (h *WellHandler) List(w http.ResponseWriter, r *http.Request) {
	wells, err := h.service.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, wells)
}

// Get handles GET /api/wells/{id}
func (h *WellHandler) Get(w http.ResponseWriter, r *http.Request) {
	well, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, well)
}

// Curves handles GET /api/wells/{id}/curves
func (h *WellHandler) Curves(w http.ResponseWriter, r *http.Request) {
	curves, err := h.service.Curves(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, curves)
}

// Data handles GET /api/wells/{id}/data?from=&to=&curves=
func (h *WellHandler) Data(w http.ResponseWriter, r *http.Request) {
	q, ok := h.depthQuery(w, r)
	if !ok {
		return
	}

	rows, err := h.service.Data(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, rows)
}

// Export handles GET /api/wells/{id}/export?format=csv|xlsx&from=&to=&curves=
func (h *WellHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	name, ok := h.query.ValidateEnum(w, r, "format", exportFormats, string(exporter.FormatCSV))
	if !ok {
		return
	}
	format, err := exporter.ParseFormat(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}
	q, ok := h.depthQuery(w, r)
	if !ok {
		return
	}

	table, err := h.service.Export(r.Context(), id, q)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, table); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export well %s: %w", id, err))
		return
	}

	h.logger.InfoContext(r.Context(), "well exported",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("well_id", id),
		slog.String("format", string(format)),
		slog.Int("rows", len(table.Rows)),
	)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFileName(table.Well, id, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func exportFileName(well, id string, format exporter.Format) string {
	base := strings.Trim(unsafeNameChars.ReplaceAllString(well, "_"), "_.")
	if base == "" {
		base = id
	}
	return base + format.Extension()
}

// Delete handles DELETE /api/wells/{id}
func (h *WellHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, apiv1.MessageResponse{Message: DeleteMessage})
}

func (h *WellHandler) depthQuery(w http.ResponseWriter, r *http.Request) (services.DepthQuery, bool) {
	var q services.DepthQuery

	from, present, ok := h.query.ValidateFloat(w, r, "from")
	if !ok {
		return q, false
	}
	if present {
		q.From = &from
	}

	to, present, ok := h.query.ValidateFloat(w, r, "to")
	if !ok {
		return q, false
	}
	if present {
		q.To = &to
	}

	q.Curves = appmw.CurveList(r, "curves")
	return q, true
}
