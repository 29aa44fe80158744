// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"marketplace-workers/internal/common/config"
	"marketplace-workers/internal/common/database"
	"marketplace-workers/internal/common/logger"
	"marketplace-workers/internal/common/observability"

	// Data Access Workers (2)
	qe "marketplace-workers/internal/workers/data-access/query-elasticsearch"
	qp "marketplace-workers/internal/workers/data-access/query-postgresql"

	// Recommendation Workers (2)
	mwh "marketplace-workers/internal/workers/jobs/match-with-history"
	rr "marketplace-workers/internal/workers/jobs/rank-recommendations"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 4 Workers ---

	// --- 1. Recommendation Workers (2) ---
	if cfg.Workers[rr.TaskType].Enabled {
		handler := rr.NewHandler(
			&rr.Config{
				CacheTTL:             time.Duration(cfg.Matching.ProfileCacheTTL) * time.Second,
				Timeout:              time.Duration(cfg.Workers[rr.TaskType].Timeout) * time.Millisecond,
				MinSimilarity:        cfg.Matching.MinSimilarity,
				Limit:                cfg.Matching.Limit,
				PreferredDistanceKm:  cfg.Matching.PreferredDistanceKm,
				AcceptableDistanceKm: cfg.Matching.AcceptableDistanceKm,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, rr.TaskType, cfg.Workers[rr.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[mwh.TaskType].Enabled {
		handler := mwh.NewHandler(
			&mwh.Config{
				CacheTTL:             time.Duration(cfg.Matching.ProfileCacheTTL) * time.Second,
				Timeout:              time.Duration(cfg.Workers[mwh.TaskType].Timeout) * time.Millisecond,
				MinSimilarity:        cfg.Matching.MinSimilarity,
				Limit:                cfg.Matching.Limit,
				PreferredDistanceKm:  cfg.Matching.PreferredDistanceKm,
				AcceptableDistanceKm: cfg.Matching.AcceptableDistanceKm,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, mwh.TaskType, cfg.Workers[mwh.TaskType], handler.Handle, obs, zapLog)
	}

	// --- 2. Data Access Workers (2) ---
	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, obs, zapLog)
	}

	if cfg.Workers[qe.TaskType].Enabled {
		handler := qe.NewHandler(
			&qe.Config{
				Timeout: time.Duration(cfg.Workers[qe.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, qe.TaskType, cfg.Workers[qe.TaskType], handler.Handle, obs, zapLog)
	}

	zapLog.Info("All 4 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), obs *observability.Observability, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	instrumented := func(jobClient worker.JobClient, job entities.Job) {
		start := time.Now()
		handlerFunc(jobClient, job)
		obs.RecordJobProcessed(context.Background(), taskType)
		obs.RecordJobDuration(context.Background(), time.Since(start), taskType)
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(instrumented).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
