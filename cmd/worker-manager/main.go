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

	"jobboard-workers/internal/common/camunda"
	"jobboard-workers/internal/common/config"
	"jobboard-workers/internal/common/database"
	"jobboard-workers/internal/common/logger"
	"jobboard-workers/internal/common/observability"

	// Infrastructure Workers (4)
	br "jobboard-workers/internal/workers/infrastructure/build-response"
	cpr "jobboard-workers/internal/workers/infrastructure/check-priority-routing"
	st "jobboard-workers/internal/workers/infrastructure/select-template"
	vs "jobboard-workers/internal/workers/infrastructure/validate-subscription"

	// Data Access Workers (2)
	qe "jobboard-workers/internal/workers/data-access/query-elasticsearch"
	qp "jobboard-workers/internal/workers/data-access/query-postgresql"

	// Match Workers (2)
	ams "jobboard-workers/internal/workers/match/aggregate-match-score"
	cq "jobboard-workers/internal/workers/match/check-qualification"

	// Assessment Workers (3)
	san "jobboard-workers/internal/workers/assessment/send-assessment-notification"
	sar "jobboard-workers/internal/workers/assessment/store-assessment-record"
	vap "jobboard-workers/internal/workers/assessment/validate-assessment-payload"

	// Search Workers (2)
	arr "jobboard-workers/internal/workers/search/apply-relevance-ranking"
	psf "jobboard-workers/internal/workers/search/parse-search-filters"

	// Communication & CRM Workers (2)
	nr "jobboard-workers/internal/workers/communication/notify-recruiter"
	svd "jobboard-workers/internal/workers/crm/sync-vendor-directory"
)

// obs carries the OpenTelemetry meters shared by startWorker wrappers.
var obs *observability.Observability

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

	obs = observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// Tracing is opt-in; without a collector endpoint the fleet runs untraced.
	if endpoint := os.Getenv("JAEGER_ENDPOINT"); endpoint != "" {
		tracing, err := observability.NewTracing("worker-manager", endpoint)
		if err != nil {
			zapLog.Warn("tracing disabled", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx)
		}
	}

	// --- Init Camunda Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Camunda client initialization")

	if err != nil {
		zapLog.Fatal("camunda client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Camunda client connected successfully")

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
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 15 Workers ---

	// --- 1. Match Workers (2) ---
	{
		handler := ams.NewHandler(
			&ams.Config{
				CacheTTL: 10 * time.Minute,
				Timeout:  time.Duration(cfg.Workers[ams.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redisClient.Client, log,
		)
		startWorker(zeebeClient, ams.TaskType, cfg.Workers[ams.TaskType], handler.Handle, zapLog)
	}

	{
		handler := cq.NewHandler(cq.LoadConfig(), log)
		startWorker(zeebeClient, cq.TaskType, cfg.Workers[cq.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Assessment Workers (3) ---
	{
		handler := vap.NewHandler(vap.LoadConfig(), log)
		startWorker(zeebeClient, vap.TaskType, cfg.Workers[vap.TaskType], handler.Handle, zapLog)
	}

	{
		handler := sar.NewHandler(
			&sar.Config{
				Timeout: time.Duration(cfg.Workers[sar.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, sar.TaskType, cfg.Workers[sar.TaskType], handler.Handle, zapLog)
	}

	{
		handler, err := san.NewHandler(
			&san.Config{
				EmailEnabled: cfg.Notifications.Email.Enabled,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      time.Duration(cfg.Workers[san.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-assessment-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, san.TaskType, cfg.Workers[san.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Search Workers (2) ---
	{
		handler := psf.NewHandler(psf.LoadConfig(), log)
		startWorker(zeebeClient, psf.TaskType, cfg.Workers[psf.TaskType], handler.Handle, zapLog)
	}

	{
		handler := arr.NewHandler(
			&arr.Config{
				MaxItems: 100,
				Timeout:  time.Duration(cfg.Workers[arr.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, arr.TaskType, cfg.Workers[arr.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Data Access Workers (2) ---
	{
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, zapLog)
	}

	{
		handler := qe.NewHandler(
			&qe.Config{
				Timeout: time.Duration(cfg.Workers[qe.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, qe.TaskType, cfg.Workers[qe.TaskType], handler.Handle, zapLog)
	}

	// --- 5. Infrastructure Workers (4) ---
	{
		handler := vs.NewHandler(
			&vs.Config{
				Timeout:  time.Duration(cfg.Workers[vs.TaskType].Timeout) * time.Millisecond,
				CacheTTL: 5 * time.Minute,
			},
			pg.DB, redisClient.Client, log,
		)
		startWorker(zeebeClient, vs.TaskType, cfg.Workers[vs.TaskType], handler.Handle, zapLog)
	}

	{
		handler := cpr.NewHandler(
			&cpr.Config{
				CacheTTL: 30 * time.Minute,
				Timeout:  time.Duration(cfg.Workers[cpr.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, redisClient.Client, log,
		)
		startWorker(zeebeClient, cpr.TaskType, cfg.Workers[cpr.TaskType], handler.Handle, zapLog)
	}

	{
		handler := st.NewHandler(
			&st.Config{
				TemplateOverrides: cfg.Template.Overrides,
				Timeout:           time.Duration(cfg.Workers[st.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, st.TaskType, cfg.Workers[st.TaskType], handler.Handle, zapLog)
	}

	{
		handler := br.NewHandler(
			&br.Config{
				TemplateRegistry: cfg.Template.RegistryPath,
				AppVersion:       cfg.App.Version,
				CacheTTL:         5 * time.Minute,
				Timeout:          time.Duration(cfg.Workers[br.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, br.TaskType, cfg.Workers[br.TaskType], handler.Handle, zapLog)
	}

	// --- 6. Communication & CRM Workers (2) ---
	// These use the self-registering handler style and manage their own job
	// workers through the shared Camunda client.
	notifyHandler, err := nr.NewHandler(nr.HandlerOptions{
		AppConfig: cfg,
		Camunda:   camundaClient,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create notify-recruiter handler", zap.Error(err))
	}
	if err := notifyHandler.Register(); err != nil {
		zapLog.Fatal("failed to register notify-recruiter worker", zap.Error(err))
	}
	defer notifyHandler.Close()

	vendorSyncHandler, err := svd.NewHandler(svd.HandlerOptions{
		AppConfig: cfg,
		Camunda:   camundaClient,
		Logger:    log,
		DB:        pg.DB,
		Redis:     redisClient.Client,
	})
	if err != nil {
		zapLog.Fatal("failed to create sync-vendor-directory handler", zap.Error(err))
	}
	if err := vendorSyncHandler.Register(); err != nil {
		zapLog.Fatal("failed to register sync-vendor-directory worker", zap.Error(err))
	}
	defer vendorSyncHandler.Close()

	zapLog.Info("All 15 workers registered successfully")

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

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Camunda client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	wrapped := func(jobClient worker.JobClient, job entities.Job) {
		start := time.Now()
		handlerFunc(jobClient, job)
		obs.RecordJobProcessed(context.Background(), taskType)
		obs.RecordJobDuration(context.Background(), time.Since(start), taskType)
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(wrapped).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
