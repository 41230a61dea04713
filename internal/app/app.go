package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"campuscli/internal/config"
	apierrors "campuscli/internal/errors"
	"campuscli/internal/infrastructure"
	customMiddleware "campuscli/internal/middleware"
	"campuscli/internal/services"
	handlers "campuscli/internal/transport/http"
)

const (
	Version = "1.0.0"
	AppName = "Campus Operations Analytics"
)

// Application is the main application container
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Analytics *services.AnalyticsService
	Health    *services.HealthService
	Logger    *slog.Logger
}

// NewApplication creates a new application instance with dependency
// injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("dataset", cfg.Data.DatasetPath))

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the service layer
func (a *Application) initializeServices() {
	a.Analytics = services.NewAnalyticsService(a.Config, a.Logger)
	a.Health = services.NewHealthService(Version, a.Config.Data, a.Analytics, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins:   a.Config.Security.AllowedOrigins,
			AllowCredentials: true,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.Health, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		errorHandler := apierrors.NewErrorHandler(a.Logger)
		analyticsHandler := handlers.NewAnalyticsHandler(a.Analytics, a.Logger, errorHandler)
		analyticsHandler.RegisterRoutes(r)
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start warms the caches and starts the HTTP server
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	// Load the dataset and train both models before accepting traffic so
	// the first request does not pay the startup cost. Warm failures are
	// not fatal: endpoints will keep returning the cached error and the
	// readiness probe reports the broken dataset.
	if err := a.Analytics.Warm(ctx); err != nil {
		a.Logger.WarnContext(ctx, "cache warm-up failed",
			slog.String("error", err.Error()))
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost%s", a.Server.Addr)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
