package main

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
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taskwell/taskwell/internal/adapter/cached"
	_ "github.com/taskwell/taskwell/internal/adapter/discord"
	_ "github.com/taskwell/taskwell/internal/adapter/email"
	twhttp "github.com/taskwell/taskwell/internal/adapter/http"
	"github.com/taskwell/taskwell/internal/adapter/jsonfile"
	"github.com/taskwell/taskwell/internal/adapter/memory"
	twnats "github.com/taskwell/taskwell/internal/adapter/nats"
	"github.com/taskwell/taskwell/internal/adapter/otel"
	"github.com/taskwell/taskwell/internal/adapter/postgres"
	_ "github.com/taskwell/taskwell/internal/adapter/slack"
	"github.com/taskwell/taskwell/internal/config"
	"github.com/taskwell/taskwell/internal/logger"
	"github.com/taskwell/taskwell/internal/middleware"
	"github.com/taskwell/taskwell/internal/port/notifier"
	"github.com/taskwell/taskwell/internal/port/repository"
	"github.com/taskwell/taskwell/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Backend,
		"cache", cfg.Cache.Enabled,
		"log_level", cfg.Logging.Level,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---

	tasks, projects, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer cleanup()

	if cfg.Cache.Enabled {
		tasks, err = cached.NewTaskRepository(tasks, cfg.Cache.MaxSizeMB<<20, cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		slog.Info("task read cache enabled", "max_size_mb", cfg.Cache.MaxSizeMB, "ttl", cfg.Cache.TTL)
	}

	// --- Notifications ---

	if cfg.NATS.URL != "" {
		queue, err := twnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = queue.Close() }()
		twnats.Register(queue)
		if cfg.Notifications.Providers == nil {
			cfg.Notifications.Providers = map[string]map[string]string{}
		}
		cfg.Notifications.Providers["nats"] = nil
	}

	var notifiers []notifier.Notifier
	for name, conf := range cfg.Notifications.Providers {
		n, err := notifier.New(name, conf)
		if err != nil {
			return fmt.Errorf("notifier %q: %w", name, err)
		}
		notifiers = append(notifiers, n)
		slog.Info("notifier configured", "provider", name)
	}
	fanout := service.NewNotificationService(notifiers)

	// --- Services ---

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	taskSvc := service.NewTaskService(tasks, projects, fanout, metrics)
	projectSvc := service.NewProjectService(tasks, projects, fanout, metrics)
	deadlineSvc := service.NewDeadlineService(tasks, fanout, cfg.Deadlines.WarningThreshold)

	// --- HTTP ---

	r := chi.NewRouter()
	r.Use(twhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(twhttp.Logger)
	r.Use(otel.HTTPMiddleware("taskwell"))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	twhttp.MountRoutes(r, twhttp.NewHandlers(taskSvc, projectSvc, deadlineSvc))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openStorage builds the task and project repositories for the configured
// backend. The returned cleanup releases backend resources.
func openStorage(ctx context.Context, cfg *config.Config) (repository.TaskRepository, repository.ProjectRepository, func(), error) {
	switch cfg.Storage.Backend {
	case "memory":
		store := memory.NewStore()
		return store.Tasks(), store.Projects(), func() {}, nil
	case "file":
		store, err := jsonfile.NewStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.Tasks(), store.Projects(), func() {}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return postgres.NewTaskStore(pool), postgres.NewProjectStore(pool), pool.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
