package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"interview-prep-backend/internal/config"
	"interview-prep-backend/internal/domain/ports/adapter"
	"interview-prep-backend/internal/infra/adapters/ai"
	"interview-prep-backend/internal/infra/db/postgres"
	"interview-prep-backend/internal/infra/export"
	"interview-prep-backend/internal/infra/logging"
	"interview-prep-backend/internal/infra/metrics"
	red "interview-prep-backend/internal/infra/redis"
	"interview-prep-backend/internal/infra/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop AI)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	sessionRepo := postgres.NewSessionRepo(pool)
	questionRepo := postgres.NewQuestionRepo(pool)
	questionCache := red.NewQuestionCache(redisClient, cfg.Cache.TTL, logger)
	notificationHub := red.NewNotificationHub(redisClient, logger)
	analytics := red.NewAnalyticsTracker(redisClient)

	generationQueue := red.NewJobQueue(redisClient, "question-generation", cfg.Queues.Generation, logger)
	exportQueue := red.NewJobQueue(redisClient, "export-generation", cfg.Queues.Export, logger)

	// ---- AI adapter ----
	var textGen adapter.TextGenerator
	if cfg.Runtime.Dev && cfg.AI.APIKey == "" {
		logger.Warn().Msg("no AI key configured, using noop generator")
		textGen = &ai.NoopGenerator{}
	} else {
		textGen, err = ai.NewGroqAdapter(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, logger)
		if err != nil {
			log.Fatalf("ai adapter: %v", err)
		}
	}

	exporter, err := export.NewService(cfg.Export.Dir, logger)
	if err != nil {
		log.Fatalf("export dir: %v", err)
	}

	// ---- Processors, one per queue ----
	generationProcessor := worker.NewProcessor(
		generationQueue,
		worker.NewGenerationHandler(textGen, questionRepo, questionCache, analytics, logger),
		notificationHub,
		logger,
	)
	exportProcessor := worker.NewProcessor(
		exportQueue,
		worker.NewExportHandler(sessionRepo, questionRepo, exporter, analytics, logger),
		notificationHub,
		logger,
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); generationProcessor.Start(ctx) }()
	go func() { defer wg.Done(); exportProcessor.Start(ctx) }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	logger.Info().Str("signal", s.String()).Msg("worker shutting down")

	cancel()
	wg.Wait()
}
