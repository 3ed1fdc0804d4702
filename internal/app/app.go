package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"FakeNewsDetector/internal/config"
	"FakeNewsDetector/internal/infrastructure/metrics"
	"FakeNewsDetector/internal/infrastructure/ml"
	"FakeNewsDetector/internal/infrastructure/scheduler"
	"FakeNewsDetector/internal/infrastructure/web"
	"FakeNewsDetector/internal/logging"
	"FakeNewsDetector/internal/session"
	"FakeNewsDetector/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	handler http.Handler
	janitor *usecase.Janitor
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging)
	}
	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	case "":
	default:
		baseLogger.Warn("unknown gin mode, keeping default", "mode", cfg.Server.Mode)
	}

	client := ml.NewClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout, nil)

	var sessions *session.Registry
	recorder := metrics.New(func() int { return sessions.Len() })

	controllerLogger := baseLogger.With("component", "controller")
	sessions = session.NewRegistry(func() *usecase.Controller {
		return usecase.NewController(usecase.ControllerDeps{
			Predictor: client,
			Metrics:   recorder,
			Logger:    controllerLogger,
		})
	}, cfg.Sessions.TTL, cfg.Sessions.MaxSessions)

	janitor := usecase.NewJanitor(
		scheduler.NewTicker(cfg.Sessions.SweepInterval),
		sessions,
		baseLogger.With("component", "janitor"),
	)

	router := web.NewRouter(web.Deps{
		Sessions:     sessions,
		Upstream:     client,
		Metrics:      recorder.Handler(),
		Logger:       baseLogger.With("component", "http"),
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	baseLogger.Info("application configured",
		"predictor", client.BaseURL(),
		"timeout", cfg.Predictor.Timeout,
		"addr", cfg.Server.Addr,
	)

	return &Application{cfg: cfg, logger: baseLogger, handler: router, janitor: janitor}
}

// Handler exposes the HTTP surface, mostly for tests.
func (a *Application) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.janitor.Start(ctx); err != nil {
		return fmt.Errorf("start janitor: %w", err)
	}

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stopErr := a.janitor.Stop(context.Background()); stopErr != nil {
			a.logger.Warn("stop janitor", "error", stopErr)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := a.janitor.Stop(shutdownCtx); err != nil {
		a.logger.Warn("stop janitor", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
