package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/neo-impact-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/neo-impact-service/internal/adapter/kafka"
	"github.com/couchcryptid/neo-impact-service/internal/adapter/neows"
	"github.com/couchcryptid/neo-impact-service/internal/config"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	"github.com/couchcryptid/neo-impact-service/internal/simulation"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "neo-impact")
	metrics := observability.NewMetrics()

	feed := neows.NewClient(cfg, metrics, logger)
	logger.Info("neo feed configured",
		"url", cfg.NEOFeedURL,
		"window_days", cfg.NEOFeedWindowDays,
		"timeout", cfg.NEOFeedTimeout,
		"max_retries", cfg.NEOFeedMaxRetries,
	)

	// Simulation event publishing is feature-flagged via KAFKA_BROKERS.
	var publisher simulation.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.PublishingEnabled.Set(1)
		logger.Info("simulation event publishing enabled", "topic", cfg.KafkaSimulationTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("simulation event publishing disabled")
	}

	svc := simulation.New(feed, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg, svc, svc, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		svc.SetReady(true)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		svc.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	exitCode := 0
	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
		exitCode = 1
	}

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	stop()
	os.Exit(exitCode)
}
