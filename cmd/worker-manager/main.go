package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"swellyo-workers/internal/candidates"
	"swellyo-workers/internal/common/camunda"
	"swellyo-workers/internal/common/config"
	"swellyo-workers/internal/common/database"
	"swellyo-workers/internal/common/logger"
	"swellyo-workers/internal/common/observability"
	"swellyo-workers/internal/matching"

	qc "swellyo-workers/internal/workers/data-access/query-candidates"
	mc "swellyo-workers/internal/workers/matching/match-companions"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// readiness collects the ping checks behind /ready.
type readiness map[string]func(context.Context) error

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(ctx)
	}()

	ctx := context.Background()
	checks := readiness{}

	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	checks["zeebe"] = zeebe.HealthCheck
	zapLog.Info("Zeebe client connected successfully")

	repo, closeRepo, err := buildRepository(ctx, cfg, zapLog, log, checks)
	if err != nil {
		zapLog.Fatal("candidate repository unavailable", zap.Error(err))
	}
	defer closeRepo()

	engine, err := matching.NewEngine(cfg.Matching)
	if err != nil {
		zapLog.Fatal("invalid matching configuration", zap.Error(err))
	}
	defer engine.Release()

	var workers []*camunda.Worker

	if wc := config.GetWorkerConfig(cfg, qc.TaskType); wc.Enabled {
		handler, err := qc.NewHandler(&qc.Config{
			Timeout:      config.GetDuration(wc.Timeout),
			DefaultLimit: cfg.Candidates.DefaultLimit,
			MaxLimit:     cfg.Candidates.MaxLimit,
		}, repo, log)
		if err != nil {
			zapLog.Fatal("failed to create query-candidates handler", zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(zeebe.Zeebe(), qc.TaskType, wc, handler.Handle, log))
	}

	if wc := config.GetWorkerConfig(cfg, mc.TaskType); wc.Enabled {
		handler, err := mc.NewHandler(mc.HandlerOptions{
			Config: &mc.Config{
				Timeout:    config.GetDuration(wc.Timeout),
				FetchLimit: cfg.Candidates.MaxLimit,
				MaxTopK:    mc.DefaultConfig().MaxTopK,
			},
			Engine:        engine,
			Repository:    repo,
			Observability: obs,
			Logger:        log,
		})
		if err != nil {
			zapLog.Fatal("failed to create match-companions handler", zap.Error(err))
		}
		workers = append(workers, camunda.StartWorker(zeebe.Zeebe(), mc.TaskType, wc, handler.Handle, log))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildRepository connects the configured candidate backend and, when cache_ttl is
// set, wraps it in the Redis cache.
func buildRepository(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, log logger.Logger, checks readiness) (candidates.Repository, func(), error) {
	var (
		repo    candidates.Repository
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	switch cfg.Candidates.Source {
	case config.SourceElasticsearch:
		var es *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, closeAll, err
		}
		checks["elasticsearch"] = es.Ping
		repo = candidates.NewElasticsearchRepository(es.Client, cfg.Candidates.Index)
		zapLog.Info("Elasticsearch connected successfully")

	default:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, pg.Close)
		checks["postgres"] = pg.Ping
		repo = candidates.NewPostgresRepository(pg.DB)
		zapLog.Info("PostgreSQL connected successfully")
	}

	if !cfg.Candidates.CacheEnabled() {
		return repo, closeAll, nil
	}

	rdb := database.NewRedis(cfg.Database.Redis)
	if err := retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection"); err != nil {
		// the cache is optional, matching works against the backend alone
		zapLog.Warn("redis unavailable, candidate cache disabled", zap.Error(err))
		_ = rdb.Close()
		return repo, closeAll, nil
	}
	closers = append(closers, rdb.Close)
	checks["redis"] = rdb.Ping
	zapLog.Info("Redis connected successfully")

	ttl := time.Duration(cfg.Candidates.CacheTTL) * time.Second
	return candidates.NewCachedRepository(repo, rdb.Client, ttl, log), closeAll, nil
}

func newMux(checks readiness) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
			}
		}
		writeStatus(w, code, map[string]interface{}{
			"status": status,
			"failed": failed,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
