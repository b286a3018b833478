package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/farmlink/farm-market-backend/internal/config"
	"github.com/farmlink/farm-market-backend/internal/notify"
)

func main() {
	_ = godotenv.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	if cfg.KafkaBrokers == "" {
		logger.Fatal().Msg("KAFKA_BROKERS environment variable is required")
	}

	handler := notify.NewHandler(strings.Split(cfg.KafkaBrokers, ","), cfg.OrdersTopic, "farm-market-notifier")
	defer handler.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("topic", cfg.OrdersTopic).Msg("notifier started")
	if err := handler.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal().Err(err).Msg("notifier stopped")
	}
	logger.Info().Msg("notifier shut down")
}
