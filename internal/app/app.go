// Package app assembles the application: configuration, logging, the
// dataset store, services, the router and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"opotracker/internal/config"
	"opotracker/internal/dataset"
	"opotracker/internal/infrastructure"
	"opotracker/internal/middleware"
	"opotracker/internal/services"
	transporthttp "opotracker/internal/transport/http"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application owns every long-lived component and the server lifecycle.
type Application struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *dataset.Store
	metrics *infrastructure.Metrics
	server  *http.Server
}

// New builds the application from the given configuration.
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	metrics := infrastructure.NewMetrics()

	labels := dataset.StatusLabels{Pass: cfg.Labels.Pass, Fail: cfg.Labels.Fail}
	loader := dataset.NewLoader(cfg.Source.CSVURL, cfg.Source.FetchTimeout, labels, logger)
	store := dataset.NewStore(loader, logger)

	dataService := services.NewDataService(store, logger)
	healthService := services.NewHealthService(Version, store)

	app := &Application{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		metrics: metrics,
	}

	router := app.buildRouter(dataService, healthService)
	app.server = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

func (a *Application) buildRouter(dataService *services.DataService, healthService *services.HealthService) chi.Router {
	dataHandler := transporthttp.NewDataHandler(dataService, a.logger, a.metrics)
	healthHandler := transporthttp.NewHealthHandler(healthService, a.logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(a.cfg.Security.AllowedOrigins))
	r.Use(middleware.RateLimiter(a.cfg.Security.RateLimit, a.cfg.Security.RateBurst))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/candidates", dataHandler.CandidateRoutes())
		r.Mount("/stats", dataHandler.StatsRoutes())
		r.Post("/reload", dataHandler.Reload)
		r.Mount("/health", healthHandler.Routes())
	})
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	return r
}

// Run performs the startup dataset load and serves HTTP until ctx is
// cancelled. A failed startup load aborts the run; later reload failures
// only keep the previous snapshot.
func (a *Application) Run(ctx context.Context) error {
	count, err := a.store.Reload(ctx)
	a.metrics.ObserveLoad(err, count)
	if err != nil {
		return fmt.Errorf("startup dataset load: %w", err)
	}
	a.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("candidates", count),
		slog.String("source", a.cfg.Source.CSVURL),
	)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		return a.Stop()
	}
}

// Stop shuts the HTTP server down gracefully.
func (a *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
