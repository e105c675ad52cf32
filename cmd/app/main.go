package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interview-prep-backend/internal/config"
	"interview-prep-backend/internal/domain/ports/adapter"
	"interview-prep-backend/internal/infra/db/postgres"
	"interview-prep-backend/internal/infra/email"
	"interview-prep-backend/internal/infra/export"
	"interview-prep-backend/internal/infra/logging"
	"interview-prep-backend/internal/infra/metrics"
	red "interview-prep-backend/internal/infra/redis"
	"interview-prep-backend/internal/infra/web"
	"interview-prep-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, log mailer)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	if err := postgres.RunMigrations(cfg.Database.MigrationsDir, cfg.Database.URL); err != nil {
		log.Fatalf("migrations: %v", err)
	}
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

	// ---- Repositories ----
	userRepo := postgres.NewUserRepo(pool)
	sessionRepo := postgres.NewSessionRepo(pool)
	questionRepo := postgres.NewQuestionRepo(pool)

	questionCache := red.NewQuestionCache(redisClient, cfg.Cache.TTL, logger)
	notificationHub := red.NewNotificationHub(redisClient, logger)
	rateLimiter := red.NewRateLimiter(redisClient)
	otpStore := red.NewOTPStore(redisClient)
	analytics := red.NewAnalyticsTracker(redisClient)

	generationQueue := red.NewJobQueue(redisClient, "question-generation", cfg.Queues.Generation, logger)
	exportQueue := red.NewJobQueue(redisClient, "export-generation", cfg.Queues.Export, logger)

	// ---- Adapters ----
	var mailer adapter.Mailer
	if cfg.Runtime.Dev || cfg.SMTP.Host == "" {
		mailer = &email.LogMailer{Log: logger}
	} else {
		mailer = email.NewSMTPMailer(&cfg.SMTP, logger)
	}
	exporter, err := export.NewService(cfg.Export.Dir, logger)
	if err != nil {
		log.Fatalf("export dir: %v", err)
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, otpStore, rateLimiter, mailer, cfg.RateLimit.OTPPerQuarterHour, logger)
	sessionUC := usecase.NewSessionUseCase(sessionRepo, analytics, logger)
	questionUC := usecase.NewQuestionUseCase(sessionRepo, questionRepo, logger)
	generationUC := usecase.NewGenerationUseCase(sessionRepo, questionRepo, questionCache,
		generationQueue, rateLimiter, analytics, cfg.RateLimit.GenerationPerHour, logger)
	exportUC := usecase.NewExportUseCase(sessionRepo, exportQueue, logger)
	notificationUC := usecase.NewNotificationUseCase(notificationHub)
	analyticsUC := usecase.NewAnalyticsUseCase(analytics)

	// ---- HTTP server ----
	tokens := web.NewTokenManager(&cfg.Auth)
	server := web.NewServer(tokens, userUC, sessionUC, questionUC, generationUC,
		exportUC, notificationUC, analyticsUC, exporter, pool, redisClient, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
}
