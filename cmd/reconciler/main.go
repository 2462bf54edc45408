package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/renkteks/kartela/internal/warehouse/reconcile"
	"github.com/renkteks/kartela/internal/warehouse/repository"
	"github.com/renkteks/kartela/kafka"
	"github.com/renkteks/kartela/pkg/database"
	"github.com/renkteks/kartela/pkg/logger"
	"github.com/renkteks/kartela/pkg/tracing"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "warehouse-reconciler")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Msg("Starting warehouse reconciler")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "warehousedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	reconciler := reconcile.NewReconciler(
		repository.NewGormItemRepository(db),
		repository.NewTracingCellRepository(repository.NewGormCellRepository(db)),
		repository.NewGormTransferRepository(db),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Consume transfer events
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	consumer, err := kafka.NewConsumer(brokers, "warehouse-reconciler", []string{
		kafka.TopicItemTransferred,
		kafka.TopicTransferPartialFailure,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Strs("brokers", brokers).Msg("Failed to connect to Kafka")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeItemTransferred, reconciler.HandleItemTransferred)
	consumer.RegisterHandler(kafka.EventTypeTransferPartialFailure, reconciler.HandlePartialFailure)

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	// Periodic full sweep
	sweepInterval, err := time.ParseDuration(getEnv("SWEEP_INTERVAL", "5m"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid SWEEP_INTERVAL")
	}
	go runSweeps(ctx, reconciler, sweepInterval)

	// Metrics endpoint
	httpPort := getEnv("HTTP_PORT", "8085")
	go startMetricsServer(httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down reconciler...")
}

func runSweeps(ctx context.Context, reconciler *reconcile.Reconciler, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			corrected, err := reconciler.Sweep(ctx)
			if err != nil {
				logger.Logger.Error().Err(err).Msg("Reconciliation sweep failed")
				continue
			}
			logger.Logger.Info().Int("corrected", corrected).Msg("Reconciliation sweep completed")
		}
	}
}

func startMetricsServer(port string) {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())

	logger.Logger.Info().Str("port", port).Msg("Metrics server started")
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start metrics server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
