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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talent-timeline-workers/internal/common/auth"
	awsclients "talent-timeline-workers/internal/common/aws"
	"talent-timeline-workers/internal/common/camunda"
	"talent-timeline-workers/internal/common/config"
	"talent-timeline-workers/internal/common/database"
	"talent-timeline-workers/internal/common/logger"
	"talent-timeline-workers/internal/common/observability"
	"talent-timeline-workers/pkg/registry"

	// Candidate Workers (3)
	ate "talent-timeline-workers/internal/workers/candidate/add-timeline-event"
	ccr "talent-timeline-workers/internal/workers/candidate/create-candidate-record"
	vpd "talent-timeline-workers/internal/workers/candidate/validate-profile-data"

	// Search Workers (3)
	esr "talent-timeline-workers/internal/workers/search/export-search-results"
	psf "talent-timeline-workers/internal/workers/search/parse-search-filters"
	sc "talent-timeline-workers/internal/workers/search/search-candidates"

	// Data Access Workers (2)
	qe "talent-timeline-workers/internal/workers/data-access/query-elasticsearch"
	qp "talent-timeline-workers/internal/workers/data-access/query-postgresql"

	// Auth Workers (2)
	ali "talent-timeline-workers/internal/workers/auth/auth-login"
	alo "talent-timeline-workers/internal/workers/auth/auth-logout"
	"talent-timeline-workers/internal/workers/auth/session"

	// Communication Workers (1)
	soe "talent-timeline-workers/internal/workers/communication/send-outreach-email"
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
	// NewClientWithConfig verifies the connection with a topology request,
	// so a successful return means the broker is actually reachable.
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
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

	// --- Init External Service Clients ---
	keycloak := auth.NewKeycloakClient(
		cfg.Auth.Keycloak.URL,
		cfg.Auth.Keycloak.Realm,
		cfg.Auth.Keycloak.ClientID,
		cfg.Auth.Keycloak.ClientSecret,
	)

	sessions := session.NewRedisStore(redis.Client)

	var sesClient *awsclients.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = awsclients.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
	}

	var snsClient *awsclients.SNSClient
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err = awsclients.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
	}

	zapLog.Info("All external service clients initialized")

	snapshotCacheTTL := time.Duration(cfg.Search.SnapshotCacheTTL) * time.Second
	sessionTTL := time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute

	// --- 1. Candidate Workers (3) ---
	if cfg.Workers[ccr.TaskType].Enabled {
		handler := ccr.NewHandler(
			&ccr.Config{
				Timeout:     time.Duration(cfg.Workers[ccr.TaskType].Timeout) * time.Millisecond,
				SnapshotKey: ccr.LoadConfig().SnapshotKey,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, ccr.TaskType, cfg.Workers[ccr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ate.TaskType].Enabled {
		handler := ate.NewHandler(
			&ate.Config{
				Timeout:     time.Duration(cfg.Workers[ate.TaskType].Timeout) * time.Millisecond,
				SnapshotKey: ate.LoadConfig().SnapshotKey,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, ate.TaskType, cfg.Workers[ate.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[vpd.TaskType].Enabled {
		handler, err := vpd.NewHandler(
			&vpd.Config{
				Timeout: time.Duration(cfg.Workers[vpd.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		if err != nil {
			zapLog.Fatal("failed to create validate-profile-data handler", zap.Error(err))
		}
		startWorker(zeebeClient, vpd.TaskType, cfg.Workers[vpd.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Search Workers (3) ---
	if cfg.Workers[psf.TaskType].Enabled {
		handler := psf.NewHandler(psf.LoadConfig(), log)
		startWorker(zeebeClient, psf.TaskType, cfg.Workers[psf.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sc.TaskType].Enabled {
		handler := sc.NewHandler(
			&sc.Config{
				Timeout:     time.Duration(cfg.Workers[sc.TaskType].Timeout) * time.Millisecond,
				SnapshotKey: sc.LoadConfig().SnapshotKey,
				CacheTTL:    snapshotCacheTTL,
				MaxResults:  cfg.Search.MaxResults,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, sc.TaskType, cfg.Workers[sc.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[esr.TaskType].Enabled {
		handler := esr.NewHandler(esr.LoadConfig(), log)
		startWorker(zeebeClient, esr.TaskType, cfg.Workers[esr.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Data Access Workers (2) ---
	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[qe.TaskType].Enabled {
		handler := qe.NewHandler(
			&qe.Config{
				Timeout:      time.Duration(cfg.Workers[qe.TaskType].Timeout) * time.Millisecond,
				DefaultIndex: cfg.Search.CandidateIndex,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, qe.TaskType, cfg.Workers[qe.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Auth Workers (2) ---
	if cfg.Workers[ali.TaskType].Enabled {
		handler := ali.NewHandler(
			&ali.Config{
				Timeout:    time.Duration(cfg.Workers[ali.TaskType].Timeout) * time.Millisecond,
				SessionTTL: sessionTTL,
			},
			keycloak, sessions, log,
		)
		startWorker(zeebeClient, ali.TaskType, cfg.Workers[ali.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[alo.TaskType].Enabled {
		handler := alo.NewHandler(
			&alo.Config{
				Timeout:            time.Duration(cfg.Workers[alo.TaskType].Timeout) * time.Millisecond,
				TokenRevocationTTL: alo.LoadConfig().TokenRevocationTTL,
			},
			sessions, keycloak, log,
		)
		startWorker(zeebeClient, alo.TaskType, cfg.Workers[alo.TaskType], handler.Handle, zapLog)
	}

	// --- 5. Communication Workers (1) ---
	if cfg.Workers[soe.TaskType].Enabled {
		if sesClient == nil {
			zapLog.Fatal("send-outreach-email enabled but SES is not configured")
		}
		var texter soe.Texter
		if snsClient != nil {
			texter = snsClient
		}
		handler := soe.NewHandler(
			&soe.Config{
				Timeout:   time.Duration(cfg.Workers[soe.TaskType].Timeout) * time.Millisecond,
				FromEmail: cfg.Integrations.AWS.SES.FromEmail,
			},
			sesClient, texter, log,
		)
		startWorker(zeebeClient, soe.TaskType, cfg.Workers[soe.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 11 workers registered successfully")

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
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/registry", func(w http.ResponseWriter, r *http.Request) {
			reg, err := registry.LoadRegistry("configs/registry.json")
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(reg)
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

	for _, w := range activeWorkers {
		w.Stop()
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// activeWorkers collects every open subscription so shutdown can drain them
// before the shared client is closed.
var activeWorkers []*camunda.CamundaWorker

func startWorker(client *camunda.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	w := camunda.NewWorker(
		client,
		taskType,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handlerFunc,
		log,
	)
	activeWorkers = append(activeWorkers, w)
}
