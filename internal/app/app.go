package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"lasanalyzer/internal/archive"
	"lasanalyzer/internal/config"
	apierrors "lasanalyzer/internal/errors"
	"lasanalyzer/internal/infrastructure"
	customMiddleware "lasanalyzer/internal/middleware"
	"lasanalyzer/internal/services"
	"lasanalyzer/internal/storage"
	handlers "lasanalyzer/internal/transport/http"
	ws "lasanalyzer/internal/websocket"
	"lasanalyzer/pkg/contracts"
)

// AppName is the display name used in logs.
const AppName = "LAS Analyzer"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Repository    *storage.GormRepository
	Archive       archive.Store
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
	Metrics       *infrastructure.BusinessMetrics
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Wells     *services.WellService
	Interpret *services.InterpretService
	Health    *services.HealthService
}

// NewApplication loads configuration, initializes logging and OpenTelemetry, and wires
// the application.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("database", cfg.Database.Driver),
		slog.String("archive", cfg.Storage.Backend))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	return NewApplicationWithConfig(ctx, cfg, logger, otelProviders)
}

// NewApplicationWithConfig wires the application from explicit dependencies. A nil
// providers value falls back to the global OpenTelemetry providers and disables /metrics.
func NewApplicationWithConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) (*Application, error) {
	if providers == nil {
		providers = &infrastructure.OTelProviders{Logger: logger}
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
	}

	if err := app.initializeServices(ctx); err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()
	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices(ctx context.Context) error {
	if a.OTelProviders.Meter != nil {
		metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		a.Metrics = metrics
	}

	repo, err := storage.Open(a.Config.Database, a.Logger)
	if err != nil {
		return err
	}
	a.Repository = repo

	store, err := archive.New(ctx, a.Config.Storage, a.Logger)
	if err != nil {
		return err
	}
	a.Archive = store

	var wsMetrics *ws.OTelMetrics
	if a.OTelProviders.Meter != nil {
		wsMetrics, err = ws.NewOTelMetrics(a.OTelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create websocket metrics: %w", err)
		}
	}
	hub := ws.NewHub(a.Logger, wsMetrics)
	hub.Start()
	a.WebSocketHub = hub

	interpretService, err := services.NewInterpretService(repo, a.Config.Analysis, a.Metrics, a.Logger)
	if err != nil {
		return err
	}

	a.Services = &ServiceContainer{
		Wells:     services.NewWellService(repo, store, hub, a.Metrics, a.Logger),
		Interpret: interpretService,
		Health:    services.NewHealthService(repo, hub, a.Logger),
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// The feed bypasses the response-wrapping middleware so the connection can be hijacked.
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).
		Get("/ws", ws.Handler(a.WebSocketHub, a.Config.Security.AllowedOrigins, a.Logger))

	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler))

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	wellHandler := handlers.NewWellHandler(
		a.Services.Wells,
		customMiddleware.NewQueryParamValidator(a.Logger, errorHandler),
		a.Logger,
		errorHandler,
	)
	interpretHandler := handlers.NewInterpretHandler(
		a.Services.Interpret,
		customMiddleware.NewValidationMiddleware(a.Logger, errorHandler),
		a.Logger,
		errorHandler,
	)
	uploadHandler := handlers.NewUploadHandler(a.Services.Wells, a.Config.Server.MaxUploadBytes, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)

			r.Mount("/wells", wellHandler.Routes(interpretHandler.Handler()))
		})

		// Uploads archive and store whole files, so they get the write budget.
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))
			r.Use(customMiddleware.MaxBodySize(a.Config.Server.MaxUploadBytes))
			r.Post("/upload-las", uploadHandler.Upload)
		})
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server. cancel is called if the server fails.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.closeResources()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// closeResources stops the hub and closes the archive and database. Safe on a
// partially initialized application.
func (a *Application) closeResources() {
	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}
	if a.Archive != nil {
		if err := a.Archive.Close(); err != nil {
			a.Logger.Error("Error closing archive", slog.String("error", err.Error()))
		}
	}
	if a.Repository != nil {
		if err := a.Repository.Close(); err != nil {
			a.Logger.Error("Error closing database", slog.String("error", err.Error()))
		}
	}
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies the database answers before traffic arrives.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.Repository.Ping(ctx); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
