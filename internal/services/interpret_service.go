package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"lasanalyzer/internal/config"
	"lasanalyzer/internal/infrastructure"
	"lasanalyzer/internal/interpret"
	"lasanalyzer/internal/storage"
	apiv1 "lasanalyzer/pkg/contracts/api/v1"
)

// InterpretService runs the statistics engine over stored rows.
type InterpretService struct {
	repo      storage.Repository
	maxCurves int
	opts      interpret.Options
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewInterpretService creates an interpretation service. An unknown quartile method
// in cfg is rejected.
func NewInterpretService(repo storage.Repository, cfg config.AnalysisConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*InterpretService, error) {
	method, err := interpret.ParseQuartileMethod(cfg.QuartileMethod)
	if err != nil {
		return nil, fmt.Errorf("analysis config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InterpretService{
		repo:      repo,
		maxCurves: cfg.MaxCurves,
		opts:      interpret.Options{Method: method},
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "interpret_service")),
	}, nil
}

// Interpret describes the requested curves inside [from, to]. Both bounds are required
// and from must not exceed to. Quartiles and fences are computed from the window only.
func (s *InterpretService) Interpret(ctx context.Context, wellID string, req apiv1.InterpretRequest) (report interpret.Report, err error) {
	if req.From == nil || req.To == nil || !isFinite(*req.From) || !isFinite(*req.To) || *req.From > *req.To {
		return interpret.Report{}, ErrInvalidDepthRange
	}
	if len(req.Curves) == 0 {
		return interpret.Report{}, ErrNoCurvesSelected
	}
	if s.maxCurves > 0 && len(req.Curves) > s.maxCurves {
		return interpret.Report{}, fmt.Errorf("%w: %d requested, limit is %d", ErrTooManyCurves, len(req.Curves), s.maxCurves)
	}

	ctx, span := startSpan(ctx, "well.interpret",
		attribute.String("well.id", wellID),
		attribute.Float64("depth.from", *req.From),
		attribute.Float64("depth.to", *req.To),
		attribute.StringSlice("curves", req.Curves))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetWell(ctx, wellID); err != nil {
		if isNotFound(err) {
			return interpret.Report{}, fmt.Errorf("%w: %s", ErrWellNotFound, wellID)
		}
		return interpret.Report{}, err
	}

	stored, err := s.repo.QueryRows(ctx, wellID, *req.From, *req.To)
	if err != nil {
		return interpret.Report{}, fmt.Errorf("load rows: %w", err)
	}

	rows := make([]interpret.Row, len(stored))
	for i, r := range stored {
		rows[i] = interpret.Row{Depth: r.Depth, Values: r.Values}
	}

	start := time.Now()
	report = interpret.AnalyzeWindow(rows, req.Curves, *req.From, *req.To, s.opts)
	elapsed := time.Since(start)

	outliers := 0
	for _, st := range report.Stats {
		outliers += len(st.OutlierDepths)
	}
	s.metrics.RecordAnalysis(ctx, len(report.Stats), outliers, elapsed)
	span.SetAttributes(attribute.Int("analysis.outliers", outliers))

	s.logger.DebugContext(ctx, "interpretation completed",
		slog.String("well_id", wellID),
		slog.Int("rows", len(rows)),
		slog.Int("curves", len(report.Stats)),
		slog.Int("outliers", outliers),
		slog.Duration("duration", elapsed))
	return report, nil
}
