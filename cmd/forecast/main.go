package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/forecast-screen/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/forecast-screen/internal/adapter/kafka"
	"github.com/couchcryptid/forecast-screen/internal/adapter/terminal"
	"github.com/couchcryptid/forecast-screen/internal/adapter/weatherapi"
	"github.com/couchcryptid/forecast-screen/internal/config"
	"github.com/couchcryptid/forecast-screen/internal/observability"
	"github.com/couchcryptid/forecast-screen/internal/screen"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	httpClient := &http.Client{Timeout: cfg.WeatherTimeout}
	client := weatherapi.NewClient(cfg.APIKey, cfg.WeatherBaseURL, httpClient, logger, metrics)
	fetcher := weatherapi.NewRateLimitedFetcher(client, cfg.RetryRate, cfg.RetryBurst)

	opts := screen.Options{
		Coordinates: cfg.Coordinates,
		Days:        cfg.Days,
		View:        cfg.ViewOptions(),
	}

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	driver := screen.New(fetcher, opts, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, driver, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the terminal renderer before the first fetch so it sees Loading.
	if cfg.TerminalEnabled {
		session := terminal.NewSession(driver, os.Stdin, os.Stdout, true, logger)
		go func() {
			defer stop()
			if err := session.Run(ctx); err != nil {
				logger.Error("terminal session error", "error", err)
			}
		}()
	}

	if err := driver.Start(ctx); err != nil {
		logger.Error("screen start error", "error", err)
		stop()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := driver.Close(); err != nil {
		logger.Error("screen close error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
