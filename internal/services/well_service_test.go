package services

import (
	"context"
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lasanalyzer/internal/archive"
	"lasanalyzer/internal/exporter"
	"lasanalyzer/internal/shared/testutil"
	"lasanalyzer/internal/storage"
	"lasanalyzer/pkg/contracts/domain"
	"lasanalyzer/pkg/contracts/events"
)

func archivedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWellService_Ingest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.wells.Ingest(ctx, "bravo.las", []byte(testLAS))
	require.NoError(t, err)

	assert.Equal(t, UploadMessage, res.Message)
	assert.NotEmpty(t, res.WellID)
	assert.Contains(t, res.FileURL, "bravo.las")
	assert.Equal(t, 3, res.CurveCount)
	assert.Equal(t, 5, res.RowCount)
	assert.Equal(t, 1, res.DroppedRows)

	files := archivedFiles(t, env.archiveDir)
	require.Len(t, files, 1)
	assert.Contains(t, files[0], "bravo.las")

	well, err := env.wells.Get(ctx, res.WellID)
	require.NoError(t, err)
	require.NotNil(t, well.Name)
	assert.Equal(t, "BRAVO-2", *well.Name)
	assert.Equal(t, 100.0, *well.StartDepth)
	assert.Equal(t, "bravo.las", well.FileName)
	assert.Equal(t, res.FileURL, well.FileURL)

	env.publisher.AssertCalled(t, "Broadcast", events.TypeWellIngested, mock.MatchedBy(func(e events.WellIngested) bool {
		return e.WellID == res.WellID && e.RowCount == 5 && e.DroppedRows == 1
	}), mock.Anything)
}

func TestWellService_IngestRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty upload", content: "", wantErr: ErrMissingFile},
		{name: "no curve section", content: "~Well\n WELL. X : WELL\n~ASCII\n 1 2\n", wantErr: ErrNoCurveDefinitions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.wells.Ingest(context.Background(), "bad.las", []byte(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, archivedFiles(t, env.archiveDir))
			wells, err := env.wells.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, wells)
			env.publisher.AssertNotCalled(t, "Broadcast", events.TypeWellIngested, mock.Anything, mock.Anything)
		})
	}
}

func TestWellService_IngestArchiveFailure(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	repo := &MockRepository{}
	store := &MockStore{}
	store.On("Put", mock.Anything, "a.las", mock.Anything).Return(archive.Object{}, errors.New("bucket gone"))

	svc := NewWellService(repo, store, nil, nil, logger)
	_, err := svc.Ingest(context.Background(), "a.las", []byte(testLAS))

	assert.ErrorIs(t, err, ErrArchiveFailed)
	repo.AssertNotCalled(t, "CreateWell", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestWellService_IngestStoreFailureRemovesArchive(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	repo := &MockRepository{}
	store := &MockStore{}
	obj := archive.Object{Key: "k-a.las", URL: "https://example.test/k-a.las"}
	store.On("Put", mock.Anything, "a.las", mock.Anything).Return(obj, nil)
	store.On("Delete", mock.Anything, "k-a.las").Return(errors.New("still there"))
	repo.On("CreateWell", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := NewWellService(repo, store, nil, nil, logger)
	_, err := svc.Ingest(context.Background(), "a.las", []byte(testLAS))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	store.AssertExpectations(t)
	assert.True(t, logs.ContainsMessage("failed to remove archived file"))
}

func TestWellService_IngestStoresReadings(t *testing.T) {
	env := newTestEnv(t)
	id := env.ingest(t)

	curves, err := env.repo.ListCurves(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, curves, 3)
	assert.Equal(t, "DEPT", curves[0].Name)

	rows, err := env.repo.QueryRows(context.Background(), id, 100, 104)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.NotContains(t, rows[0].Values, "DEPT")
	assert.Equal(t, -9999.0, rows[0].Values["RT"])
	assert.True(t, math.IsNaN(rows[3].Values["RT"]))
}

func TestWellService_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.ingest(t)
	second := env.ingest(t)

	wells, err := env.wells.List(ctx)
	require.NoError(t, err)
	require.Len(t, wells, 2)
	ids := []string{wells[0].ID, wells[1].ID}
	assert.ElementsMatch(t, []string{first, second}, ids)

	_, err = env.wells.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrWellNotFound)
}

func TestWellService_Curves(t *testing.T) {
	env := newTestEnv(t)
	id := env.ingest(t)

	curves, err := env.wells.Curves(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []domain.Curve{
		{Name: "DEPT", Unit: "M"},
		{Name: "GR", Unit: "GAPI"},
		{Name: "RT", Unit: "OHMM"},
	}, curves)

	_, err = env.wells.Curves(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrWellNotFound)
}

func TestWellService_Data(t *testing.T) {
	env := newTestEnv(t)
	id := env.ingest(t)

	tests := []struct {
		name       string
		query      DepthQuery
		wantDepths []float64
		wantKeys   []string
		wantErr    error
	}{
		{
			name:       "defaults to full range",
			wantDepths: []float64{100, 101, 102, 103, 104},
			wantKeys:   []string{"GR", "RT"},
		},
		{
			name:       "explicit window",
			query:      DepthQuery{From: ptr(101.0), To: ptr(102.0)},
			wantDepths: []float64{101, 102},
			wantKeys:   []string{"GR", "RT"},
		},
		{
			name:       "open upper bound",
			query:      DepthQuery{From: ptr(103.0)},
			wantDepths: []float64{103, 104},
			wantKeys:   []string{"GR", "RT"},
		},
		{
			name:       "curve filter",
			query:      DepthQuery{From: ptr(100.0), To: ptr(100.0), Curves: []string{"GR", "NOPE"}},
			wantDepths: []float64{100},
			wantKeys:   []string{"GR"},
		},
		{
			name:    "reversed window",
			query:   DepthQuery{From: ptr(104.0), To: ptr(100.0)},
			wantErr: ErrInvalidDepthRange,
		},
		{
			name:    "non-finite bound",
			query:   DepthQuery{From: ptr(math.NaN())},
			wantErr: ErrInvalidDepthRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := env.wells.Data(context.Background(), id, tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			depths := make([]float64, len(rows))
			for i, r := range rows {
				depths[i] = r.Depth
				keys := make([]string, 0, len(r.Values))
				for k := range r.Values {
					keys = append(keys, k)
				}
				assert.ElementsMatch(t, tt.wantKeys, keys)
			}
			assert.Equal(t, tt.wantDepths, depths)
		})
	}
}

func TestWellService_DataUnknownWell(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.wells.Data(context.Background(), "missing", DepthQuery{})
	assert.ErrorIs(t, err, ErrWellNotFound)
}

func TestWellService_DataEmptyWell(t *testing.T) {
	env := newTestEnv(t)
	id := "empty-well"
	require.NoError(t, env.repo.CreateWell(context.Background(), &storage.Well{ID: id}, []storage.Curve{{Name: "DEPT"}}, nil))

	rows, err := env.wells.Data(context.Background(), id, DepthQuery{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWellService_Export(t *testing.T) {
	env := newTestEnv(t)
	id := env.ingest(t)

	table, err := env.wells.Export(context.Background(), id, DepthQuery{From: ptr(100.0), To: ptr(101.0)})
	require.NoError(t, err)

	assert.Equal(t, "BRAVO-2", table.Well)
	assert.Equal(t, "DEPT", table.DepthName)
	assert.Equal(t, "M", table.DepthUnit)
	assert.Equal(t, []exporter.Column{{Name: "GR", Unit: "GAPI"}, {Name: "RT", Unit: "OHMM"}}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, exporter.Row{Depth: 100, Values: []float64{50, -9999}}, table.Rows[0])

	selected, err := env.wells.Export(context.Background(), id, DepthQuery{Curves: []string{"RT", "GR", "RT", "NOPE"}})
	require.NoError(t, err)
	assert.Equal(t, []exporter.Column{{Name: "RT", Unit: "OHMM"}, {Name: "GR", Unit: "GAPI"}}, selected.Columns)
	require.Len(t, selected.Rows, 5)
	assert.True(t, math.IsNaN(selected.Rows[3].Values[0]))
	assert.Equal(t, 51.0, selected.Rows[3].Values[1])
}

func TestWellService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.ingest(t)
	require.Len(t, archivedFiles(t, env.archiveDir), 1)

	require.NoError(t, env.wells.Delete(ctx, id))

	_, err := env.wells.Get(ctx, id)
	assert.ErrorIs(t, err, ErrWellNotFound)
	rows, err := env.repo.QueryRows(ctx, id, -1e18, 1e18)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, archivedFiles(t, env.archiveDir))
	env.publisher.AssertCalled(t, "Broadcast", events.TypeWellDeleted, events.WellDeleted{WellID: id}, mock.Anything)

	assert.ErrorIs(t, env.wells.Delete(ctx, id), ErrWellNotFound)
}

func TestWellService_DeleteKeepsGoingWhenArchiveFails(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	repo := &MockRepository{}
	store := &MockStore{}
	repo.On("GetWell", mock.Anything, "w1").Return(&storage.Well{ID: "w1", FileKey: "k1"}, nil)
	repo.On("DeleteWell", mock.Anything, "w1").Return(nil)
	store.On("Delete", mock.Anything, "k1").Return(errors.New("permission denied"))

	svc := NewWellService(repo, store, nil, nil, logger)
	require.NoError(t, svc.Delete(context.Background(), "w1"))

	repo.AssertExpectations(t)
	store.AssertExpectations(t)
	assert.True(t, logs.ContainsMessage("failed to remove archived file"))
}

func TestWellService_Ingest_OversizedLineIsDropped(t *testing.T) {
	env := newTestEnv(t)

	content := testLAS + strings.Repeat("9", 5<<20) + "\n"
	res, err := env.wells.Ingest(context.Background(), "long.las", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, 5, res.RowCount)
	assert.Equal(t, 2, res.DroppedRows)
}
