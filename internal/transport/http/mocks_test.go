package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "lasanalyzer/internal/errors"
	"lasanalyzer/internal/exporter"
	"lasanalyzer/internal/interpret"
	appmw "lasanalyzer/internal/middleware"
	"lasanalyzer/internal/services"
	"lasanalyzer/internal/shared/testutil"
	"lasanalyzer/pkg/contracts"
	apiv1 "lasanalyzer/pkg/contracts/api/v1"
	"lasanalyzer/pkg/contracts/domain"
)

type MockWellService struct {
	mock.Mock
}

func (m *MockWellService) Ingest(ctx context.Context, fileName string, content []byte) (domain.UploadResult, error) {
	args := m.Called(ctx, fileName, content)
	return args.Get(0).(domain.UploadResult), args.Error(1)
}

func (m *MockWellService) List(ctx context.Context) ([]domain.Well, error) {
	args := m.Called(ctx)
	wells, _ := args.Get(0).([]domain.Well)
	return wells, args.Error(1)
}

func (m *MockWellService) Get(ctx context.Context, id string) (domain.Well, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Well), args.Error(1)
}

func (m *MockWellService) Curves(ctx context.Context, id string) ([]domain.Curve, error) {
	args := m.Called(ctx, id)
	curves, _ := args.Get(0).([]domain.Curve)
	return curves, args.Error(1)
}

func (m *MockWellService) Data(ctx context.Context, id string, q services.DepthQuery) ([]domain.DataRow, error) {
	args := m.Called(ctx, id, q)
	rows, _ := args.Get(0).([]domain.DataRow)
	return rows, args.Error(1)
}

func (m *MockWellService) Export(ctx context.Context, id string, q services.DepthQuery) (exporter.Table, error) {
	args := m.Called(ctx, id, q)
	return args.Get(0).(exporter.Table), args.Error(1)
}

func (m *MockWellService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockInterpretService struct {
	mock.Mock
}

func (m *MockInterpretService) Interpret(ctx context.Context, wellID string, req apiv1.InterpretRequest) (interpret.Report, error) {
	args := m.Called(ctx, wellID, req)
	return args.Get(0).(interpret.Report), args.Error(1)
}

type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealthService) Version() contracts.VersionInfo {
	return m.Called().Get(0).(contracts.VersionInfo)
}

type testAPI struct {
	router    chi.Router
	wells     *MockWellService
	interpret *MockInterpretService
}

// newTestAPI wires the handlers the way the application mounts them under /api.
func newTestAPI(t *testing.T, maxUpload int64) *testAPI {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	api := &testAPI{
		wells:     &MockWellService{},
		interpret: &MockInterpretService{},
	}

	wellHandler := NewWellHandler(api.wells, appmw.NewQueryParamValidator(logger, errorHandler), logger, errorHandler)
	uploadHandler := NewUploadHandler(api.wells, maxUpload, logger, errorHandler)
	interpretHandler := NewInterpretHandler(api.interpret, appmw.NewValidationMiddleware(logger, errorHandler), logger, errorHandler)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload-las", uploadHandler.Upload)
		r.Mount("/wells", wellHandler.Routes(interpretHandler.Handler()))
	})
	api.router = r
	return api
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func ptr[T any](v T) *T { return &v }
