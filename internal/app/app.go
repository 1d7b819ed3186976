// Package app assembles the application: configuration, logging,
// telemetry, services, the HTTP router and graceful lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"hrpulse/internal/analysis"
	"hrpulse/internal/config"
	"hrpulse/internal/errors"
	"hrpulse/internal/exporter"
	"hrpulse/internal/infrastructure"
	customMiddleware "hrpulse/internal/middleware"
	"hrpulse/internal/services"
	handlers "hrpulse/internal/transport/http"
)

const (
	Version = "v1.0.0"
	AppName = "HR Pulse - Spreadsheet Analysis Engine"
)

// Application is the composed application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders

	evictionCancel context.CancelFunc
}

// NewApplication builds the application with all dependencies wired.
func NewApplication() (*Application, error) {
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
		slog.String("version", Version))

	otelProviders, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	return buildApplication(cfg, logger, otelProviders)
}

func buildApplication(cfg *config.Config, logger *slog.Logger, otelProviders *infrastructure.OTelProviders) (*Application, error) {
	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	app.AnalysisService = services.NewAnalysisService(
		cfg.Analysis,
		analysis.NewAnalyzer(logger),
		logger,
	)
	app.HealthService = services.NewHealthService(Version, cfg.Paths, app.AnalysisService, logger)

	var pipelineMetrics *infrastructure.PipelineMetrics
	if otelProviders != nil && otelProviders.Meter != nil {
		var err error
		pipelineMetrics, err = infrastructure.CreatePipelineMetrics(otelProviders.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
		}
	}

	app.setupRouter(pipelineMetrics)

	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// setupRouter builds the chi middleware chain and mounts all routes.
func (a *Application) setupRouter(metrics *infrastructure.PipelineMetrics) {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := errors.NewErrorHandler(a.Logger)
	reportWriter := exporter.NewReportWriter(a.Config.Paths, a.Logger)

	analysisHandler := handlers.NewAnalysisHandler(
		a.AnalysisService,
		reportWriter,
		a.Config.Analysis.MaxUploadBytes,
		metrics,
		a.Logger,
		errorHandler,
	)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Mount("/analysis", analysisHandler.Routes())
	})

	r.Get("/healthz", healthHandler.HealthCheck)
	r.Get("/healthz/live", healthHandler.LivenessCheck)

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// Start runs the HTTP server and the session janitor. Blocks until
// the server stops.
func (a *Application) Start() error {
	evictionCtx, cancel := context.WithCancel(context.Background())
	a.evictionCancel = cancel
	a.AnalysisService.StartEviction(evictionCtx)

	a.Logger.Info("HTTP server listening",
		slog.String("addr", a.Server.Addr))

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if a.evictionCancel != nil {
		a.evictionCancel()
	}

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Failed to shut down server gracefully",
			slog.String("error", err.Error()))
		return err
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Failed to shut down telemetry",
				slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		return err
	}

	a.Logger.Info("Shutdown complete")
	return nil
}

// shutdownGrace gives in-flight requests a floor even when the
// configured timeout is missing.
const shutdownGrace = 5 * time.Second

// ShutdownTimeout returns the effective graceful shutdown window.
func (a *Application) ShutdownTimeout() time.Duration {
	if t := a.Config.Server.ShutdownTimeout; t > 0 {
		return t
	}
	return shutdownGrace
}
