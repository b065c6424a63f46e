package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/FleetShift/internal/api"
	"github.com/MikeSquared-Agency/FleetShift/internal/config"
	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
	"github.com/MikeSquared-Agency/FleetShift/internal/engine"
	"github.com/MikeSquared-Agency/FleetShift/internal/finance"
	"github.com/MikeSquared-Agency/FleetShift/internal/hermes"
	"github.com/MikeSquared-Agency/FleetShift/internal/ranking"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	// A missing .env is normal outside development.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database (optional unless it is the dataset source)
	var pool *pgxpool.Pool
	if cfg.Dataset.DatabaseURL != "" {
		pool, err = dataset.Connect(ctx, cfg.Dataset.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("connected to database")
	}

	// Dataset
	src, err := newSource(ctx, cfg.Dataset, pool)
	if err != nil {
		logger.Error("failed to configure dataset source", "error", err)
		os.Exit(1)
	}
	repo := dataset.NewRepository(src, logger)
	if _, err := repo.Load(ctx); err != nil {
		logger.Error("failed to load dataset", "source", src.Name(), "error", err)
		os.Exit(1)
	}

	// Engine and simulator
	eng, err := engine.New(engine.ConstantsFromConfig(cfg.Engine))
	if err != nil {
		logger.Error("invalid engine constants", "error", err)
		os.Exit(1)
	}
	sim, err := finance.NewSimulator(finance.FromConfig(cfg.Simulator))
	if err != nil {
		logger.Error("invalid simulator constants", "error", err)
		os.Exit(1)
	}

	// Rankings (optional)
	var ranker *ranking.Ranker
	if pool != nil {
		ranker = ranking.NewRanker(ranking.NewPostgresSource(pool, cfg.Ranking.ExcludedLines), cfg.Ranking)
	} else {
		logger.Warn("no database configured, rankings disabled")
	}

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	reloader := api.NewReloader(repo, hermesClient, logger)
	if hermesClient != nil {
		if err := hermesClient.Subscribe(hermes.SubjectDatasetReloadRequest, reloader.HandleRequest); err != nil {
			logger.Warn("failed to subscribe to reload requests", "error", err)
		}
	}

	// API server
	router := api.NewRouter(repo, eng, sim, ranker, reloader, hermesClient, cfg.Server, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(repo),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newSource(ctx context.Context, cfg config.DatasetConfig, pool *pgxpool.Pool) (dataset.Source, error) {
	switch cfg.Source {
	case "", "file":
		return dataset.NewFileSource(cfg.Dir), nil
	case "s3":
		return dataset.NewS3Source(ctx, cfg.S3)
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("dataset source postgres requires database_url")
		}
		return dataset.NewPostgresSource(pool), nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}
