package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weather-lookup-service/internal/adapter/httpapi"
	"github.com/couchcryptid/weather-lookup-service/internal/adapter/openweather"
	"github.com/couchcryptid/weather-lookup-service/internal/audit"
	"github.com/couchcryptid/weather-lookup-service/internal/config"
	"github.com/couchcryptid/weather-lookup-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.OpenWeatherTimeout, metrics, logger)

	// Audit trail is feature-flagged via KAFKA_BROKERS / AUDIT_ENABLED.
	var auditor httpapi.AuditPublisher
	var publisher *audit.Publisher
	if cfg.AuditEnabled {
		publisher = audit.NewPublisher(cfg, metrics, logger)
		auditor = publisher
		metrics.AuditEnabled.Set(1)
		logger.Info("lookup audit trail enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAuditTopic)
	} else {
		metrics.AuditEnabled.Set(0)
		logger.Info("lookup audit trail disabled")
	}

	handler := httpapi.NewWeatherHandler(weather, auditor, metrics, logger)
	srv := httpapi.NewServer(cfg.HTTPAddr, handler, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("audit publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
