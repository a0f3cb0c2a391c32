package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "none"

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelInitialization_UnsupportedExporters(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "jaeger"
	_, err := InitializeOTel(cfg, quietLogger())
	assert.Error(t, err)

	cfg = DefaultOTelConfig()
	cfg.TraceExporter = "none"
	cfg.MetricExporter = "statsd"
	_, err = InitializeOTel(cfg, quietLogger())
	assert.Error(t, err)
}

// TestTraceCorrelation tests trace ID correlation
func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := otel.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	ctx = WithTraceID(ctx, traceID)
	assert.Equal(t, traceID, GetTraceID(ctx))

	RecordError(ctx, errors.New("boom"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

// TestBusinessMetrics tests that ingestion and analysis outcomes reach the meter
func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordIngest(ctx, 120, 3, nil)
	metrics.RecordIngest(ctx, 0, 0, errors.New("parse failed"))
	metrics.RecordAnalysis(ctx, 2, 5, 10*time.Millisecond)

	sums := collect(t, reader)
	assert.Equal(t, int64(1), sums["las_files_ingested_total"])
	assert.Equal(t, int64(120), sums["las_rows_parsed_total"])
	assert.Equal(t, int64(3), sums["las_rows_dropped_total"])
	assert.Equal(t, int64(1), sums["las_ingest_errors_total"])
	assert.Equal(t, int64(2), sums["analysis_curves_total"])
	assert.Equal(t, int64(5), sums["analysis_outliers_total"])
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var metrics *BusinessMetrics
	assert.NotPanics(t, func() {
		metrics.RecordIngest(context.Background(), 1, 0, nil)
		metrics.RecordAnalysis(context.Background(), 1, 0, time.Second)
	})
}

// TestPrometheusEndpoint tests the metrics endpoint serves exposition text
func TestPrometheusEndpoint(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "none"
	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordIngest(context.Background(), 10, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "las_files_ingested_total")
}
