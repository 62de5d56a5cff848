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
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/starford/menutree/internal/api"
	"github.com/starford/menutree/internal/catalog"
	"github.com/starford/menutree/internal/sse"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := app.logger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("tree_path", cfg.Tree.Path),
		slog.Bool("tree_watch", cfg.Tree.Watch),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, closeDB, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		snap, err := svc.Current()
		if err != nil {
			writeHealth(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			return
		}
		writeHealth(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"source":   snap.Source,
			"checksum": snap.Checksum,
		})
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	shutdownTimeout := cfg.App.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start tree watcher with SSE callback.
	if cfg.Tree.Watch {
		g.Go(func() error {
			err := svc.Watch(gCtx, filepath.Clean(cfg.Tree.Path), func(kind, detail string) {
				broker.PublishTreeEvent(sseType(kind), detail)
			})
			if err != nil {
				logger.Error("tree watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
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

		// Close SSE streams first so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// sseType maps catalog watch events to SSE event types.
func sseType(kind string) string {
	switch kind {
	case catalog.EventReloaded:
		return sse.TypeTreeReloaded
	case catalog.EventInvalid:
		return sse.TypeTreeInvalid
	default:
		return kind
	}
}

func writeHealth(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
