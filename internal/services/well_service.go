package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"lasanalyzer/internal/archive"
	"lasanalyzer/internal/exporter"
	"lasanalyzer/internal/infrastructure"
	"lasanalyzer/internal/las"
	"lasanalyzer/internal/storage"
	"lasanalyzer/pkg/contracts/domain"
	"lasanalyzer/pkg/contracts/events"
)

// UploadMessage is the message returned for a stored upload.
const UploadMessage = "LAS file uploaded and stored successfully"

// EventPublisher publishes events on the WebSocket feed.
type EventPublisher interface {
	Broadcast(eventType string, data interface{}, traceID string)
}

// DepthQuery selects a depth window and, optionally, a subset of curves. Nil bounds
// default to the well's stored depth range.
type DepthQuery struct {
	From   *float64
	To     *float64
	Curves []string
}

// WellService ingests LAS uploads and serves stored wells.
type WellService struct {
	repo      storage.Repository
	store     archive.Store
	publisher EventPublisher
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewWellService creates a well service. publisher and metrics may be nil.
func NewWellService(repo storage.Repository, store archive.Store, publisher EventPublisher, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *WellService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WellService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "well_service")),
	}
}

// Ingest archives the original file and parses it concurrently, then stores the well,
// its curves and rows. The archived object is removed again if the well cannot be stored.
func (s *WellService) Ingest(ctx context.Context, fileName string, content []byte) (result domain.UploadResult, err error) {
	if len(content) == 0 {
		return domain.UploadResult{}, ErrMissingFile
	}

	ctx, span := startSpan(ctx, "well.ingest",
		attribute.String("file.name", fileName),
		attribute.Int("file.size", len(content)))
	defer func() { endSpan(span, err) }()

	start := time.Now()
	var (
		obj    archive.Object
		parsed *las.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		o, err := s.store.Put(gctx, fileName, bytes.NewReader(content))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrArchiveFailed, err)
		}
		obj = o
		return nil
	})
	g.Go(func() error {
		parsed = las.Parse(string(content))
		return nil
	})
	if err := g.Wait(); err != nil {
		if obj.Key != "" {
			s.discardArchive(ctx, obj.Key)
		}
		s.metrics.RecordIngest(ctx, 0, 0, err)
		return domain.UploadResult{}, err
	}

	if len(parsed.Curves) == 0 {
		s.discardArchive(ctx, obj.Key)
		s.metrics.RecordIngest(ctx, 0, parsed.DroppedRows, ErrNoCurveDefinitions)
		return domain.UploadResult{}, ErrNoCurveDefinitions
	}

	well, curves, rows := toStorage(parsed, fileName, obj)
	if err := s.repo.CreateWell(ctx, well, curves, rows); err != nil {
		s.discardArchive(ctx, obj.Key)
		s.metrics.RecordIngest(ctx, 0, 0, err)
		return domain.UploadResult{}, fmt.Errorf("store well: %w", err)
	}
	s.metrics.RecordIngest(ctx, len(rows), parsed.DroppedRows, nil)

	result = domain.UploadResult{
		Message:     UploadMessage,
		WellID:      well.ID,
		FileURL:     obj.URL,
		CurveCount:  len(curves),
		RowCount:    len(rows),
		DroppedRows: parsed.DroppedRows,
	}

	s.logger.InfoContext(ctx, "well ingested",
		slog.String("well_id", well.ID),
		slog.String("file_name", fileName),
		slog.Int("curves", len(curves)),
		slog.Int("rows", len(rows)),
		slog.Int("dropped_rows", parsed.DroppedRows),
		slog.Duration("duration", time.Since(start)))

	s.publish(ctx, events.TypeWellIngested, events.WellIngested{
		WellID:      well.ID,
		Name:        well.Name,
		FileURL:     obj.URL,
		CurveCount:  len(curves),
		RowCount:    len(rows),
		DroppedRows: parsed.DroppedRows,
	})
	return result, nil
}

func toStorage(parsed *las.Result, fileName string, obj archive.Object) (*storage.Well, []storage.Curve, []storage.LogRow) {
	well := &storage.Well{
		ID:          uuid.NewString(),
		Name:        parsed.Well.Name,
		StartDepth:  parsed.Well.StartDepth,
		StopDepth:   parsed.Well.StopDepth,
		Step:        parsed.Well.Step,
		FileName:    fileName,
		FileKey:     obj.Key,
		FileURL:     obj.URL,
		CurveCount:  len(parsed.Curves),
		RowCount:    len(parsed.Rows),
		DroppedRows: parsed.DroppedRows,
		CreatedAt:   time.Now().UTC(),
	}

	curves := make([]storage.Curve, len(parsed.Curves))
	for i, c := range parsed.Curves {
		curves[i] = storage.Curve{Ordinal: i, Name: c.Name, Unit: c.Unit}
	}

	rows := make([]storage.LogRow, 0, len(parsed.Rows))
	for _, r := range parsed.Rows {
		rows = append(rows, storage.LogRow{Depth: r.Depth, Values: storage.Readings(r.Readings(parsed.Curves))})
	}
	return well, curves, rows
}

func (s *WellService) discardArchive(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.WarnContext(ctx, "failed to remove archived file",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

func (s *WellService) publish(ctx context.Context, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Broadcast(eventType, data, infrastructure.GetTraceID(ctx))
}

// List returns every well, newest first.
func (s *WellService) List(ctx context.Context) ([]domain.Well, error) {
	wells, err := s.repo.ListWells(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Well, len(wells))
	for i := range wells {
		out[i] = toDomainWell(&wells[i])
	}
	return out, nil
}

// Get returns one well.
func (s *WellService) Get(ctx context.Context, id string) (domain.Well, error) {
	well, err := s.getWell(ctx, id)
	if err != nil {
		return domain.Well{}, err
	}
	return toDomainWell(well), nil
}

func (s *WellService) getWell(ctx context.Context, id string) (*storage.Well, error) {
	well, err := s.repo.GetWell(ctx, id)
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrWellNotFound, id)
	}
	return well, err
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

func toDomainWell(w *storage.Well) domain.Well {
	return domain.Well{
		ID:          w.ID,
		Name:        w.Name,
		StartDepth:  w.StartDepth,
		StopDepth:   w.StopDepth,
		Step:        w.Step,
		FileName:    w.FileName,
		FileURL:     w.FileURL,
		CurveCount:  w.CurveCount,
		RowCount:    w.RowCount,
		DroppedRows: w.DroppedRows,
		CreatedAt:   w.CreatedAt,
	}
}

// Curves returns the well's curves in declaration order.
func (s *WellService) Curves(ctx context.Context, id string) ([]domain.Curve, error) {
	if _, err := s.getWell(ctx, id); err != nil {
		return nil, err
	}
	curves, err := s.repo.ListCurves(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Curve, len(curves))
	for i, c := range curves {
		out[i] = domain.Curve{Name: c.Name, Unit: c.Unit}
	}
	return out, nil
}

// Data returns the rows inside the query window ordered by depth. When q.Curves is set
// only those readings are returned.
func (s *WellService) Data(ctx context.Context, id string, q DepthQuery) ([]domain.DataRow, error) {
	rows, err := s.queryWindow(ctx, id, q)
	if err != nil {
		return nil, err
	}

	keep := curveSet(q.Curves)
	out := make([]domain.DataRow, len(rows))
	for i, r := range rows {
		values := map[string]float64(r.Values)
		if keep != nil {
			values = make(map[string]float64, len(keep))
			for name, v := range r.Values {
				if keep[name] {
					values[name] = v
				}
			}
		}
		out[i] = domain.DataRow{Depth: r.Depth, Values: values}
	}
	return out, nil
}

// Export builds an export table for the query window. Columns follow declaration order
// unless q.Curves names a selection, in which case its order is kept.
func (s *WellService) Export(ctx context.Context, id string, q DepthQuery) (exporter.Table, error) {
	well, err := s.getWell(ctx, id)
	if err != nil {
		return exporter.Table{}, err
	}
	curves, err := s.repo.ListCurves(ctx, id)
	if err != nil {
		return exporter.Table{}, err
	}
	rows, err := s.queryWindow(ctx, id, q)
	if err != nil {
		return exporter.Table{}, err
	}

	table := exporter.Table{DepthName: "DEPTH"}
	if well.Name != nil {
		table.Well = *well.Name
	}
	if len(curves) > 0 {
		table.DepthName = curves[0].Name
		table.DepthUnit = curves[0].Unit
		curves = curves[1:]
	}

	byName := make(map[string]storage.Curve, len(curves))
	for _, c := range curves {
		byName[c.Name] = c
	}
	names := q.Curves
	if len(names) == 0 {
		for _, c := range curves {
			names = append(names, c.Name)
		}
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		table.Columns = append(table.Columns, exporter.Column{Name: c.Name, Unit: c.Unit})
	}

	table.Rows = make([]exporter.Row, len(rows))
	for i, r := range rows {
		values := make([]float64, len(table.Columns))
		for j, c := range table.Columns {
			v, ok := r.Values[c.Name]
			if !ok {
				v = math.NaN()
			}
			values[j] = v
		}
		table.Rows[i] = exporter.Row{Depth: r.Depth, Values: values}
	}
	return table, nil
}

// queryWindow checks the well exists, resolves default bounds and loads the rows.
func (s *WellService) queryWindow(ctx context.Context, id string, q DepthQuery) ([]storage.LogRow, error) {
	if _, err := s.getWell(ctx, id); err != nil {
		return nil, err
	}

	from, to, ok, err := resolveWindow(ctx, s.repo, id, q.From, q.To)
	if err != nil || !ok {
		return nil, err
	}
	return s.repo.QueryRows(ctx, id, from, to)
}

// resolveWindow fills missing bounds from the stored depth range. ok is false when a
// bound is missing and the well has no rows.
func resolveWindow(ctx context.Context, repo storage.Repository, id string, fromPtr, toPtr *float64) (from, to float64, ok bool, err error) {
	if (fromPtr != nil && !isFinite(*fromPtr)) || (toPtr != nil && !isFinite(*toPtr)) {
		return 0, 0, false, ErrInvalidDepthRange
	}
	if fromPtr == nil || toPtr == nil {
		lo, hi, has, err := repo.DepthRange(ctx, id)
		if err != nil {
			return 0, 0, false, err
		}
		if !has {
			return 0, 0, false, nil
		}
		if fromPtr == nil {
			fromPtr = &lo
		}
		if toPtr == nil {
			toPtr = &hi
		}
	}
	if *fromPtr > *toPtr {
		return 0, 0, false, ErrInvalidDepthRange
	}
	return *fromPtr, *toPtr, true, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func curveSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Delete removes the well's rows, curves and record, then the archived file. Archive
// failures are logged and do not fail the call.
func (s *WellService) Delete(ctx context.Context, id string) error {
	well, err := s.getWell(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteWell(ctx, id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrWellNotFound, id)
		}
		return err
	}
	s.discardArchive(ctx, well.FileKey)

	s.logger.InfoContext(ctx, "well deleted", slog.String("well_id", id))
	s.publish(ctx, events.TypeWellDeleted, events.WellDeleted{WellID: id})
	return nil
}
