package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "lasanalyzer/internal/errors"
	"lasanalyzer/internal/interpret"
	appmw "lasanalyzer/internal/middleware"
	apiv1 "lasanalyzer/pkg/contracts/api/v1"
)

// CleanedCurve is one curve with its outliers removed, as parallel arrays.
type CleanedCurve struct {
	Depths []float64 `json:"depths"`
	Values []float64 `json:"values"`
}

// InterpretResponse is the body returned by POST /api/wells/{id}/interpret.
type InterpretResponse struct {
	Stats         map[string]interpret.StatSummary `json:"stats"`
	Summary       string                           `json:"summary"`
	CleanedCurves map[string]CleanedCurve          `json:"cleanedCurves"`
}

// InterpretHandler runs interpretations.
type InterpretHandler struct {
	service      InterpretService
	validation   *appmw.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewInterpretHandler creates an interpretation handler.
func NewInterpretHandler(service InterpretService, validation *appmw.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *InterpretHandler {
	return &InterpretHandler{
		service:      service,
		validation:   validation,
		logger:       logger.With(slog.String("component", "interpret_handler")),
		errorHandler: errorHandler,
	}
}

// Handler returns Interpret behind JSON body validation.
func (h *InterpretHandler) Handler() http.Handler {
	return h.validation.ValidateRequest(http.HandlerFunc(h.Interpret))
}

// Interpret handles POST /api/wells/{id}/interpret
func (h *InterpretHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req apiv1.InterpretRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validation.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Interpret(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	render.JSON(w, r, newInterpretResponse(report))
}

func newInterpretResponse(report interpret.Report) InterpretResponse {
	resp := InterpretResponse{
		Stats:         report.Stats,
		Summary:       report.Summary,
		CleanedCurves: make(map[string]CleanedCurve, len(report.Stats)),
	}
	if resp.Stats == nil {
		resp.Stats = map[string]interpret.StatSummary{}
	}
	for curve, st := range report.Stats {
		resp.CleanedCurves[curve] = CleanedCurve{
			Depths: st.CleanedSeries.Depths(),
			Values: st.CleanedSeries.Values(),
		}
	}
	return resp
}
