package http

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lasanalyzer/internal/config"
	"lasanalyzer/internal/services"
	"lasanalyzer/pkg/contracts/domain"
)

func multipartUpload(t *testing.T, field, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-las", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler_Success(t *testing.T) {
	api := newTestAPI(t, 1<<20)
	api.wells.On("Ingest", mock.Anything, "deep.las", []byte("~Curve\n")).Return(domain.UploadResult{
		Message:    services.UploadMessage,
		WellID:     "w1",
		FileURL:    "https://storage.googleapis.com/b/k",
		CurveCount: 3,
		RowCount:   10,
	}, nil)

	rec := api.do(multipartUpload(t, config.UploadFormField, "deep.las", "~Curve\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"message": "LAS file uploaded and stored successfully",
		"wellId": "w1",
		"fileUrl": "https://storage.googleapis.com/b/k",
		"curveCount": 3,
		"rowCount": 10,
		"droppedRows": 0
	}`, rec.Body.String())
	api.wells.AssertExpectations(t)
}

func TestUploadHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		maxUpload  int64
		request    func(t *testing.T) *http.Request
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "wrong field name",
			maxUpload:  1 << 20,
			request:    func(t *testing.T) *http.Request { return multipartUpload(t, "file", "a.las", "x") },
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_FILE",
		},
		{
			name:      "not multipart",
			maxUpload: 1 << 20,
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/upload-las", strings.NewReader(`{}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_FILE",
		},
		{
			name:      "body over limit",
			maxUpload: 64,
			request: func(t *testing.T) *http.Request {
				return multipartUpload(t, config.UploadFormField, "a.las", strings.Repeat("9", 512))
			},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "no curves declared",
			maxUpload:  1 << 20,
			request:    func(t *testing.T) *http.Request { return multipartUpload(t, config.UploadFormField, "a.las", "x") },
			serviceErr: services.ErrNoCurveDefinitions,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "NO_CURVE_DEFINITIONS",
		},
		{
			name:       "archive failure",
			maxUpload:  1 << 20,
			request:    func(t *testing.T) *http.Request { return multipartUpload(t, config.UploadFormField, "a.las", "x") },
			serviceErr: errors.Join(services.ErrArchiveFailed, errors.New("bucket")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "ARCHIVE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, tt.maxUpload)
			if tt.serviceErr != nil {
				api.wells.On("Ingest", mock.Anything, mock.Anything, mock.Anything).Return(domain.UploadResult{}, tt.serviceErr)
			}

			rec := api.do(tt.request(t))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeProblem(t, rec)["error_code"])
			}
			if tt.serviceErr == nil {
				api.wells.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
