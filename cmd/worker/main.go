package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medvault/consent-api/pkg/logger"
	"github.com/medvault/consent-api/pkg/messaging"
	"github.com/medvault/consent-api/pkg/messaging/redis"
)

// Config is the audit consumer configuration, read from the
// environment.
type Config struct {
	RedisURL   string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	Channel    string        `envconfig:"EVENT_CHANNEL" default:"consent.events"`
	HealthAddr string        `envconfig:"HEALTH_ADDR" default:":8081"`
	Backoff    time.Duration `envconfig:"RETRY_BACKOFF" default:"100ms"`
}

// The audit consumer subscribes to the consent event channel and writes
// every domain event to the audit log stream. It is the reference
// observer for RecordCreated, AccessGranted and AccessRevoked events.
func main() {
	var cfg Config
	if err := envconfig.Process("consent", &cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	auditLogger := &logger.Logger{ZL: log.Logger}

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: cfg.Backoff,
		PoolSize:     5,
		MinIdleConns: 1,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	setupHealthCheck(cfg.HealthAddr, auditLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		auditLogger.Info("Shutting down audit consumer")
		cancel()
	}()

	consume(ctx, broker, cfg.Channel, auditLogger)
}

func consume(ctx context.Context, broker messaging.Broker, channel string, auditLogger *logger.Logger) {
	msgs, err := broker.Subscribe(ctx, channel)
	if err != nil {
		auditLogger.Fatal(err, "Failed to subscribe")
	}

	auditLogger.Info("Audit consumer started", "channel", channel)

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-msgs:
			if !ok {
				return
			}
			var msg messaging.Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				auditLogger.Error(err, "Failed to decode event")
				continue
			}
			auditLogger.ZL.Info().
				Str("event_type", msg.Type).
				Interface("payload", msg.Payload).
				Msg("audit event")
		}
	}
}

func setupHealthCheck(addr string, auditLogger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			auditLogger.ZL.Error().Err(err).Msg("Health check server failed")
			os.Exit(1)
		}
	}()
}
