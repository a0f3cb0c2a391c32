package services

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lasanalyzer/internal/archive"
	"lasanalyzer/internal/config"
	"lasanalyzer/internal/shared/testutil"
	"lasanalyzer/internal/storage"
)

const testLAS = `~Version Information
 VERS.   2.0 : CWLS LOG ASCII STANDARD
~Well Information
 STRT.M   100.0 : START DEPTH
 STOP.M   104.0 : STOP DEPTH
 STEP.M     1.0 : STEP
 WELL.    BRAVO-2 : WELL
~Curve Information
 DEPT .M    : Depth
 GR   .GAPI : Gamma ray
 RT   .OHMM : Resistivity
~ASCII Log Data
 100  50    -9999
 101  52    10
 102  1000  11
 103  51    abc
 104  53    12
 105  54
`

// MockPublisher records feed events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Broadcast(eventType string, data interface{}, traceID string) {
	m.Called(eventType, data, traceID)
}

// MockStore is a testify mock of archive.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, name string, r io.Reader) (archive.Object, error) {
	args := m.Called(ctx, name, r)
	return args.Get(0).(archive.Object), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStore) Close() error { return m.Called().Error(0) }

// MockRepository is a testify mock of storage.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateWell(ctx context.Context, well *storage.Well, curves []storage.Curve, rows []storage.LogRow) error {
	return m.Called(ctx, well, curves, rows).Error(0)
}

func (m *MockRepository) ListWells(ctx context.Context) ([]storage.Well, error) {
	args := m.Called(ctx)
	wells, _ := args.Get(0).([]storage.Well)
	return wells, args.Error(1)
}

func (m *MockRepository) GetWell(ctx context.Context, id string) (*storage.Well, error) {
	args := m.Called(ctx, id)
	well, _ := args.Get(0).(*storage.Well)
	return well, args.Error(1)
}

func (m *MockRepository) ListCurves(ctx context.Context, wellID string) ([]storage.Curve, error) {
	args := m.Called(ctx, wellID)
	curves, _ := args.Get(0).([]storage.Curve)
	return curves, args.Error(1)
}

func (m *MockRepository) QueryRows(ctx context.Context, wellID string, from, to float64) ([]storage.LogRow, error) {
	args := m.Called(ctx, wellID, from, to)
	rows, _ := args.Get(0).([]storage.LogRow)
	return rows, args.Error(1)
}

func (m *MockRepository) DepthRange(ctx context.Context, wellID string) (float64, float64, bool, error) {
	args := m.Called(ctx, wellID)
	return args.Get(0).(float64), args.Get(1).(float64), args.Bool(2), args.Error(3)
}

func (m *MockRepository) DeleteWell(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockRepository) Close() error { return m.Called().Error(0) }

type testEnv struct {
	repo       *storage.GormRepository
	store      *archive.LocalStore
	archiveDir string
	publisher  *MockPublisher
	wells      *WellService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	repo, err := storage.Open(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "las.db"),
		InsertBatch: 2,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	dir := t.TempDir()
	store, err := archive.NewLocalStore(dir, "", logger)
	require.NoError(t, err)

	publisher := &MockPublisher{}
	publisher.On("Broadcast", mock.Anything, mock.Anything, mock.Anything).Maybe()

	return &testEnv{
		repo:       repo,
		store:      store,
		archiveDir: dir,
		publisher:  publisher,
		wells:      NewWellService(repo, store, publisher, nil, logger),
	}
}

// ingest stores testLAS and returns the new well id.
func (e *testEnv) ingest(t *testing.T) string {
	t.Helper()
	res, err := e.wells.Ingest(context.Background(), "bravo.las", []byte(testLAS))
	require.NoError(t, err)
	return res.WellID
}

func ptr[T any](v T) *T { return &v }
