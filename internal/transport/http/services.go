package http

import (
	"context"

	"lasanalyzer/internal/exporter"
	"lasanalyzer/internal/interpret"
	"lasanalyzer/internal/services"
	"lasanalyzer/pkg/contracts"
	apiv1 "lasanalyzer/pkg/contracts/api/v1"
	"lasanalyzer/pkg/contracts/domain"
)

// WellService is the well lifecycle used by the upload and well handlers.
type WellService interface {
	Ingest(ctx context.Context, fileName string, content []byte) (domain.UploadResult, error)
	List(ctx context.Context) ([]domain.Well, error)
	Get(ctx context.Context, id string) (domain.Well, error)
	Curves(ctx context.Context, id string) ([]domain.Curve, error)
	Data(ctx context.Context, id string, q services.DepthQuery) ([]domain.DataRow, error)
	Export(ctx context.Context, id string, q services.DepthQuery) (exporter.Table, error)
	Delete(ctx context.Context, id string) error
}

// InterpretService runs the statistics engine for a well.
type InterpretService interface {
	Interpret(ctx context.Context, wellID string, req apiv1.InterpretRequest) (interpret.Report, error)
}

// HealthService reports liveness, readiness and version.
type HealthService interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() contracts.VersionInfo
}
