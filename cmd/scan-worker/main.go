package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmstack/pharmacy-backend/internal/cron"
	"github.com/pharmstack/pharmacy-backend/internal/directory"
	"github.com/pharmstack/pharmacy-backend/internal/inventory"
	"github.com/pharmstack/pharmacy-backend/internal/stock"
	"github.com/pharmstack/pharmacy-backend/pkg/config"
	"github.com/pharmstack/pharmacy-backend/pkg/db"
	"github.com/pharmstack/pharmacy-backend/pkg/logger"
	"github.com/pharmstack/pharmacy-backend/pkg/mailer"
	"github.com/pharmstack/pharmacy-backend/pkg/metrics"
	"github.com/pharmstack/pharmacy-backend/pkg/migrate"
	"github.com/pharmstack/pharmacy-backend/pkg/redis"
)

const lockName = "low-stock-scan"

func main() {
	logg := logger.New(logger.Options{ServiceName: "scan-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "scan-worker"

	logg = logger.New(logger.Options{
		ServiceName: "scan-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	notifier, err := buildNotifier(cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to build notifier", err)
		os.Exit(1)
	}

	scanJob, err := inventory.NewScanJob(inventory.ScanJobParams{
		Logger:    logg,
		Stock:     stock.NewRepository(dbClient.DB()),
		Directory: directory.NewRepository(dbClient.DB()),
		Notifier:  notifier,
		Threshold: cfg.Inventory.Threshold,
		Subject:   cfg.Inventory.MailSubject,
	})
	if err != nil {
		logg.Error(ctx, "failed to build low stock scan job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName), cfg.Inventory.LockTTL)
	if err != nil {
		logg.Error(ctx, "failed to create execution lock", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(scanJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Inventory.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create scheduler service", err)
		os.Exit(1)
	}

	telemetry := startTelemetryServer(ctx, cfg, logg, dbClient, redisClient)
	defer shutdownTelemetryServer(logg, telemetry)

	logg.Info(ctx, "starting scan worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "scan worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "scan worker shutting down gracefully")
}

func buildNotifier(cfg *config.Config, logg *logger.Logger) (mailer.Notifier, error) {
	if cfg.Sendgrid.APIKey == "" {
		if cfg.App.IsProd() {
			return nil, errors.New("sendgrid api key is required in prod")
		}
		logg.Warn(context.Background(), "no sendgrid api key configured, notifications will be logged only")
		return mailer.NewLogNotifier(logg), nil
	}
	return mailer.NewSendgridMailer(cfg.Sendgrid)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func startTelemetryServer(ctx context.Context, cfg *config.Config, logg *logger.Logger, dbClient, redisClient pinger) *http.Server {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbClient.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(r.Context()); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logg.Info(ctx, "telemetry listener on :"+cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "telemetry listener stopped", err)
		}
	}()
	return server
}

func shutdownTelemetryServer(logg *logger.Logger, server *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "telemetry shutdown failed", err)
	}
}
