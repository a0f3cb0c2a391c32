package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lasanalyzer/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	handler := NewErrorHandler(logger, true)

	assert.NotNil(t, handler)
	assert.True(t, handler.includeStack)
	assert.NotNil(t, handler.logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
		wantLevel  slog.Level
	}{
		{
			name:       "invalid depth range",
			err:        ErrInvalidDepth,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidDepth,
			wantDetail: "Invalid depth range",
			wantLevel:  slog.LevelWarn,
		},
		{
			name:       "wrapped well not found",
			err:        fmt.Errorf("lookup: %w", ErrWellNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeWellNotFound,
			wantDetail: "Well not found",
			wantLevel:  slog.LevelWarn,
		},
		{
			name:       "unknown error is internal",
			err:        fmt.Errorf("database exploded"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantDetail: "An unexpected error occurred while processing your request",
			wantLevel:  slog.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			r := httptest.NewRequest(http.MethodPost, "/api/wells/1/interpret", nil)
			w := httptest.NewRecorder()

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantDetail, body["detail"])
			assert.Equal(t, "/api/wells/1/interpret", body["instance"])
			assert.Contains(t, body, "trace_id")
			assert.NotContains(t, body, "stack")

			testutil.AssertLogContains(t, logs, tt.wantLevel, "request failed")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorHandler_HandleError_StackOnlyForServerErrors(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))
	assert.Contains(t, decodeProblem(t, w), "stack")

	w = httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), ErrNoCurves)
	assert.NotContains(t, decodeProblem(t, w), "stack")
}

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{"context deadline exceeded", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout, "Request Timeout"},
		{"context canceled", fmt.Errorf("query: %w", context.Canceled), http.StatusGatewayTimeout, TypeTimeout, "Request Timeout"},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, TypePayloadTooLarge, "Payload Too Large"},
		{"validation failed", ErrValidationFailed, http.StatusBadRequest, TypeValidation, "Bad Request"},
		{"no curves selected", ErrNoCurves, http.StatusBadRequest, TypeNoCurves, "Bad Request"},
		{"missing file", ErrMissingFile, http.StatusBadRequest, TypeMissingFile, "Bad Request"},
		{"no curve definitions", ErrNoCurveDefinitions, http.StatusUnprocessableEntity, TypeNoCurveDefined, "Unprocessable Entity"},
		{"not found", ErrNotFound, http.StatusNotFound, TypeNotFound, "Not Found"},
		{"archive failed", ErrArchiveFailed, http.StatusInternalServerError, TypeArchiveFailed, "Internal Server Error"},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit, "Too Many Requests"},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, TypeServiceDown, "Service Unavailable"},
		{"generic error", fmt.Errorf("generic error"), http.StatusInternalServerError, TypeInternal, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			r := httptest.NewRequest(http.MethodGet, "/test", nil)
			problem := handler.ErrorToProblem(tt.err, r)

			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantTitle, problem.Title)
			assert.Equal(t, "/test", problem.Instance)
		})
	}
}

func TestErrorHandler_apiErrorToProblem_Details(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	apiErr := NewValidationErrors([]ValidationError{{Field: "curves", Message: "is required"}})
	problem := handler.apiErrorToProblem(apiErr, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, "VALIDATION_FAILED", problem.Extensions["error_code"])
	assert.Equal(t, ValidationErrors{Errors: []ValidationError{{Field: "curves", Message: "is required"}}}, problem.Extensions["details"])
}

func TestErrorHandler_Middleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	panicking := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("parser exploded")
	}))

	w := httptest.NewRecorder()
	panicking.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")

	ok := handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	w = httptest.NewRecorder()
	ok.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodPatch, "/api/wells", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.True(t, strings.Contains(decodeProblem(t, w)["detail"].(string), "PATCH"))
}

func TestErrorHandler_JSON(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.JSON(w, r, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "/x").
		WithExtension("status", 999).
		WithExtension("error_code", "VALIDATION_FAILED")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.NotContains(t, body, "detail")
}

func TestProblemDetails_Render(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeNoCurveDefined, "Unprocessable", "no curves", "/api/upload-las").
		WithExtension("trace_id", "req-7")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/upload-las", nil)
	require.NoError(t, problem.Render(w, r))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	body := decodeProblem(t, w)
	assert.Equal(t, TypeNoCurveDefined, body["type"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
	assert.Equal(t, "req-7", body["trace_id"])
}
