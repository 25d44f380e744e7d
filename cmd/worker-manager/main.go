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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commonaws "loandoc-workers/internal/common/aws"
	"loandoc-workers/internal/common/camunda"
	"loandoc-workers/internal/common/config"
	"loandoc-workers/internal/common/database"
	"loandoc-workers/internal/common/genai"
	"loandoc-workers/internal/common/logger"
	"loandoc-workers/internal/common/observability"

	"loandoc-workers/internal/docgen/audit"
	"loandoc-workers/internal/docgen/orchestrator"
	"loandoc-workers/internal/docgen/program"
	"loandoc-workers/internal/docgen/render"

	gp "loandoc-workers/internal/workers/document/generate-package"
	nf "loandoc-workers/internal/workers/document/notify-flagged"
	rg "loandoc-workers/internal/workers/document/regenerate-document"
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
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
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
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build Document Pipeline ---
	genaiClient := genai.NewClient(
		&genai.Config{
			BaseURL: cfg.Generator.GenAI.BaseURL,
			APIKey:  cfg.Generator.GenAI.APIKey,
			Model:   cfg.Generator.GenAI.Model,
			Timeout: time.Duration(cfg.Generator.GenAI.Timeout) * time.Millisecond,
		},
		&genaiLoggerAdapter{log},
	)

	orch := orchestrator.New(genaiClient, render.NewTextRenderer(), cfg.Pipeline.Parallelism)
	requirements := program.NewSource(pg.DB, redis.Client, time.Duration(cfg.Pipeline.ProgramCacheTTL)*time.Second)
	auditor := audit.NewIndexer(esClient.Client, cfg.Database.Elasticsearch.AuditIndex)

	zapLog.Info("Document pipeline initialized")

	// --- Register Document Workers ---
	var workers []*camunda.CamundaWorker

	if wcfg := config.GetWorkerConfig(cfg, gp.TaskType); wcfg.Enabled {
		handler := gp.NewHandler(
			&gp.Config{
				Enabled:       true,
				MaxJobsActive: wcfg.MaxJobsActive,
				Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
				Parallelism:   cfg.Pipeline.Parallelism,
				AuditEnabled:  true,
			},
			orch, requirements, auditor, log,
		)
		workers = append(workers, camunda.NewWorker(zeebeClient.GetClient(), gp.TaskType, wcfg.MaxJobsActive, handler, zapLog))
	}

	if wcfg := config.GetWorkerConfig(cfg, rg.TaskType); wcfg.Enabled {
		handler := rg.NewHandler(
			&rg.Config{
				Enabled:           true,
				MaxJobsActive:     wcfg.MaxJobsActive,
				Timeout:           time.Duration(wcfg.Timeout) * time.Millisecond,
				MaxFeedbackRounds: cfg.Pipeline.MaxFeedbackRounds,
			},
			orch, auditor, log,
		)
		workers = append(workers, camunda.NewWorker(zeebeClient.GetClient(), rg.TaskType, wcfg.MaxJobsActive, handler, zapLog))
	}

	if wcfg := config.GetWorkerConfig(cfg, nf.TaskType); wcfg.Enabled {
		sesClient, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}

		nfConfig := &nf.Config{
			Enabled:       true,
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       time.Duration(wcfg.Timeout) * time.Millisecond,
			EmailEnabled:  cfg.Notifications.Email.Enabled,
			SMSEnabled:    cfg.Notifications.SMS.Enabled,
			FromEmail:     cfg.Notifications.Email.FromEmail,
			Reviewers:     cfg.Notifications.Email.Reviewers,
			ReviewerSMS:   cfg.Notifications.SMS.Recipients,
			AWSRegion:     cfg.Notifications.AWS.Region,
		}
		if err := nfConfig.Validate(); err != nil {
			zapLog.Fatal("invalid notify-flagged config", zap.Error(err))
		}

		service := nf.NewService(nf.ServiceDependencies{Logger: log}, nfConfig, sesClient, snsClient)
		handler := nf.NewHandler(nfConfig, service, log)
		workers = append(workers, camunda.NewWorker(zeebeClient.GetClient(), nf.TaskType, wcfg.MaxJobsActive, handler, zapLog))
	}

	zapLog.Info("All document workers registered", zap.Int("count", len(workers)))

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
			if err := zeebeClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
					"time":   time.Now().Format(time.RFC3339),
				})
				return
			}
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

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// Logger adapter for the genai client, which has its own Logger interface
type genaiLoggerAdapter struct {
	logger.Logger
}

func (a *genaiLoggerAdapter) With(fields map[string]interface{}) genai.Logger {
	return &genaiLoggerAdapter{a.Logger.With(fields)}
}
