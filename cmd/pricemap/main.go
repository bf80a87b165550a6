package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casamapa/price-map-service/internal/adapter/gadm"
	httpadapter "github.com/casamapa/price-map-service/internal/adapter/http"
	kafkaadapter "github.com/casamapa/price-map-service/internal/adapter/kafka"
	"github.com/casamapa/price-map-service/internal/adapter/postgres"
	"github.com/casamapa/price-map-service/internal/config"
	"github.com/casamapa/price-map-service/internal/observability"
	"github.com/casamapa/price-map-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStore(pool, logger)

	// Canonical region names come from the regions table or straight from
	// the GADM feature collections, per configuration.
	var regions pipeline.RegionSource
	switch cfg.RegionSource {
	case config.RegionSourcePostgres:
		regions = store
		logger.Info("canonical regions from postgres")
	case config.RegionSourceGADM:
		client := gadm.NewClient(cfg.GADMBase, cfg.GADMCountry, cfg.GADMTimeout, logger, metrics)
		regions = gadm.NewCachedProvider(client, cfg.GADMCacheTTL, metrics)
		logger.Info("canonical regions from gadm", "base", cfg.GADMBase, "country", cfg.GADMCountry)
	}

	opts := []pipeline.Option{}
	if cfg.SnapshotByDay {
		opts = append(opts, pipeline.WithDayGranularity())
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		opts = append(opts, pipeline.WithPublisher(publisher))
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(store, regions, logger, metrics, opts...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

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
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
