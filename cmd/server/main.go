// Package main is the entrypoint for the jobtracker API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiranshivaraju/jobtracker/internal/api"
	"github.com/kiranshivaraju/jobtracker/internal/api/handler"
	mw "github.com/kiranshivaraju/jobtracker/internal/api/middleware"
	"github.com/kiranshivaraju/jobtracker/internal/api/response"
	"github.com/kiranshivaraju/jobtracker/internal/cache"
	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/internal/contacts"
	"github.com/kiranshivaraju/jobtracker/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	setLogger(slog.LevelInfo)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func setLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
}

func run() error {
	// A missing .env is fine; the process environment is used as is.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setLogger(cfg.Server.LogLevel)
	slog.Info("config loaded", "store", cfg.Store.Backend, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, cfg, "migrations")
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()
	slog.Info("store ready", "backend", cfg.Store.Backend, "document", cfg.Store.DocumentName)

	var ca cache.Cache = cache.Noop{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		ca = redisCache
	}

	svc := contacts.NewService(st, ca,
		contacts.WithAnalyticsCache(cfg.Store.DocumentName, cfg.Analytics.CacheTTL))

	deps := api.Dependencies{
		HealthHandler: healthHandler(st, ca),

		ListContacts:     handler.NewListContactsHandler(svc, time.Local),
		CreateContact:    handler.NewCreateContactHandler(svc),
		GetContact:       handler.NewGetContactHandler(svc),
		UpdateContact:    handler.NewUpdateContactHandler(svc),
		DeleteContact:    handler.NewDeleteContactHandler(svc),
		ArchiveContact:   handler.NewArchiveContactHandler(svc, true),
		UnarchiveContact: handler.NewArchiveContactHandler(svc, false),

		AddInterview:     handler.NewAddInterviewHandler(svc),
		UpdateInterview:  handler.NewUpdateInterviewHandler(svc),
		DeleteInterview:  handler.NewDeleteInterviewHandler(svc),
		AddInteraction:   handler.NewAddInteractionHandler(svc),
		AddAttachment:    handler.NewAddAttachmentHandler(svc),
		DeleteAttachment: handler.NewDeleteAttachmentHandler(svc),

		AnalyticsHandler: handler.NewAnalyticsHandler(svc),
	}
	// Rate limiting needs a shared counter.
	if cfg.Redis.URL != "" {
		deps.RateLimit = mw.NewRateLimit(ca, cfg.RateLimit.RequestsPerMinute)
	}

	router := api.NewRouter(deps)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks store and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"store": "ok",
			"cache": "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			slog.Warn("store ping failed", "error", err)
			checks["store"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			slog.Warn("cache ping failed", "error", err)
			checks["cache"] = "degraded"
		}

		if checks["store"] != "ok" || checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, response.Fields{
			"status":   "ok",
			"services": checks,
		})
	}
}
