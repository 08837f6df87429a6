package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medvault/consent-api/internal/config"
	authHandler "github.com/medvault/consent-api/internal/handler/auth"
	consentHandler "github.com/medvault/consent-api/internal/handler/consent"
	recordHandler "github.com/medvault/consent-api/internal/handler/record"
	"github.com/medvault/consent-api/internal/ledger"
	"github.com/medvault/consent-api/internal/middleware"
	"github.com/medvault/consent-api/internal/router"
	consentService "github.com/medvault/consent-api/internal/service/consent"
	recordService "github.com/medvault/consent-api/internal/service/record"
	"github.com/medvault/consent-api/pkg/auth"
	"github.com/medvault/consent-api/pkg/event"
	"github.com/medvault/consent-api/pkg/logger"
	"github.com/medvault/consent-api/pkg/messaging/redis"
	"github.com/medvault/consent-api/pkg/metrics"
	"github.com/medvault/consent-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	// Core ledger with its event outbox.
	outbox := event.NewOutbox()
	core := ledger.New(outbox)

	appMetrics := metrics.NewMetrics("consent", "api")

	// Services
	recordSvc := recordService.NewService(core, appLogger, appMetrics)
	consentSvc := consentService.NewService(core, appLogger, appMetrics)

	// Auth
	jwtSvc := auth.NewService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// Router + handlers
	r := router.NewRouter(authMiddleware, router.Config{
		RateLimit: rate.Limit(cfg.Server.RateLimit),
		RateBurst: cfg.Server.RateBurst,
	})
	r.MountPublic(authHandler.NewHandler(jwtSvc))
	r.Mount(
		recordHandler.NewHandler(recordSvc),
		consentHandler.NewHandler(consentSvc),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event dispatcher publishing the outbox to Redis.
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	dispatcher := worker.NewDispatcher(outbox, broker, worker.DispatcherConfig{
		BatchSize:     cfg.Dispatch.BatchSize,
		PollInterval:  cfg.Dispatch.PollInterval,
		RetryAttempts: cfg.Dispatch.RetryAttempts,
		RetryDelay:    cfg.Dispatch.RetryDelay,
		Channel:       cfg.Dispatch.Channel,
	}, appLogger, appMetrics)
	go dispatcher.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	// Drain remaining events before exit.
	if err := dispatcher.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to drain outbox")
	}

	log.Info().Msg("server exited properly")
}
