// Package app wires configuration, logging, observability, the report
// service and the HTTP transport into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"kpicli/internal/config"
	"kpicli/internal/infrastructure"
	"kpicli/internal/middleware"
	"kpicli/internal/services"
	transporthttp "kpicli/internal/transport/http"
)

// App is the assembled KPI server
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
	metrics   *infrastructure.BusinessMetrics
	service   *services.ReportService
	server    *http.Server
}

// New builds the application from configuration
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize otel: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	service := services.NewReportService(cfg.Input, logger, providers.Tracer, metrics)

	app := &App{
		cfg:       cfg,
		logger:    logger,
		providers: providers,
		metrics:   metrics,
		service:   service,
	}

	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// router assembles the middleware chain and routes
func (a *App) router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	r.Use(middleware.NewRateLimiter(a.cfg.Server.RateLimitRPS, a.cfg.Server.RateLimitBurst, a.logger).Handler)
	r.Use(a.httpMetrics)

	health := transporthttp.NewHealthHandler()
	r.Get("/api/health", health.Health)

	r.Mount("/api", transporthttp.NewKPIHandler(a.service, a.logger).Routes())

	if a.providers.PrometheusHTTP != nil {
		r.Handle("/metrics", a.providers.PrometheusHTTP)
	}

	return r
}

// httpMetrics records per-request counters and latency
func (a *App) httpMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		ctx := r.Context()
		a.metrics.HTTPRequestsTotal.Add(ctx, 1)
		a.metrics.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds())
	})
}

// Run starts the server and blocks until ctx is canceled or the listener
// fails. The first pipeline run happens eagerly so the common case serves
// from cache; a failure is logged and retried lazily on request.
func (a *App) Run(ctx context.Context) error {
	if err := a.service.Refresh(ctx); err != nil {
		a.logger.WarnContext(ctx, "initial pipeline run failed; serving will retry on demand",
			slog.Any("error", err))
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("KPI server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := a.providers.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("otel shutdown failed", slog.Any("error", err))
	}
	return nil
}
