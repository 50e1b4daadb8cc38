// Package internal provides the main application initialization and runtime logic.
package internal

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
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/zametki/internal/api"
	"github.com/starford/zametki/internal/mcpserver"
	"github.com/starford/zametki/internal/noteservice"
	"github.com/starford/zametki/internal/sse"
	"github.com/starford/zametki/internal/state"
	"github.com/starford/zametki/internal/storage"
	"github.com/starford/zametki/internal/watcher"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// NewService wires the store codec, state manager and note service for cfg.
// It is the one place the store location is bound; every caller shares the
// returned service.
func NewService(cfg *Config, logger *slog.Logger, opts ...noteservice.Option) (*noteservice.Service, error) {
	codec, err := storage.OpenJSON(cfg.Store.Path,
		storage.WithLogger(logger),
		storage.WithCorruptionHandler(func(path string, err error) {
			logger.Error("note store unreadable; showing an empty collection until it is repaired",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	manager := state.New(codec, state.WithLogger(logger))

	opts = append([]noteservice.Option{
		noteservice.WithLabels(cfg.App.Labels()),
		noteservice.WithLogger(logger),
	}, opts...)
	return noteservice.NewService(manager, opts...), nil
}

// Run starts the HTTP API (and the store watcher when enabled) and blocks
// until ctx is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.Bool("store_watch", cfg.Store.Watch),
		slog.String("locale", cfg.App.Locale),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(time.Second)
	defer broker.Close()

	svc, err := NewService(cfg, logger, noteservice.WithObserver(broker.PublishNoteCreated))
	if err != nil {
		return err
	}

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Store.Watch {
		g.Go(func() error {
			if err := watcher.Watch(gCtx, cfg.Store.Path, logger, broker.PublishStoreChanged); err != nil {
				// The API keeps serving without live change notifications.
				logger.Warn("store watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdio. Logs go to stderr so they do not
// corrupt the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svc, err := NewService(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting", slog.String("store_path", cfg.Store.Path))
	return mcpserver.New(svc, app.version).ServeStdio()
}
