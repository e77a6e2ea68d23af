package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voluntr/volunteer-api/internal/config"
	"github.com/voluntr/volunteer-api/internal/repository/postgres"
	"github.com/voluntr/volunteer-api/pkg/logger"
	"github.com/voluntr/volunteer-api/pkg/messaging/redis"
	"github.com/voluntr/volunteer-api/pkg/metrics"
	"github.com/voluntr/volunteer-api/pkg/worker"
)

// envOverrides lets deployments tune the worker without touching the
// shared config file.
type envOverrides struct {
	BatchSize    int           `envconfig:"BATCH_SIZE" default:"0"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"0"`
	HealthPort   string        `envconfig:"HEALTH_PORT" default:"8081"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env envOverrides
	if err := envconfig.Process("outbox", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to read environment overrides")
	}

	level, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logger.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &appLogger.ZL)
	if err != nil {
		appLogger.Fatal(err, "failed to create Redis broker")
	}
	defer broker.Close()

	baseRepo := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(baseRepo)

	workerCfg := cfg.Outbox.ToWorkerConfig()
	if env.BatchSize > 0 {
		workerCfg.BatchSize = env.BatchSize
	}
	if env.PollInterval > 0 {
		workerCfg.PollInterval = env.PollInterval
	}

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		workerCfg,
		appLogger,
		metrics.New("outbox_processor"),
	)

	startHealthServer(env.HealthPort, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("shutting down...")
		cancel()
	}()

	processor.Start(ctx)
}

func startHealthServer(port string, appLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			appLogger.ZL.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}
