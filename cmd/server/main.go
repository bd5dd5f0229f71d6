package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/fraudscore/internal/classifier"
	"github.com/vanshika/fraudscore/internal/config"
	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/features"
	"github.com/vanshika/fraudscore/internal/graph"
	"github.com/vanshika/fraudscore/internal/history"
	"github.com/vanshika/fraudscore/internal/logging"
	"github.com/vanshika/fraudscore/internal/metrics"
	"github.com/vanshika/fraudscore/internal/params"
	"github.com/vanshika/fraudscore/internal/repository"
	"github.com/vanshika/fraudscore/internal/server"
	"github.com/vanshika/fraudscore/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run owns every startup resource so deferred cleanup happens before main exits.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	model, err := classifier.Load(cfg.Model.Path)
	if err != nil {
		return fmt.Errorf("load model %s: %w", cfg.Model.Path, err)
	}

	paramSet, err := loadParams(ctx, cfg.Params)
	if err != nil {
		return fmt.Errorf("load feature parameters from %s: %w", cfg.Params.Source, err)
	}

	pipeline, err := buildPipeline(cfg.Features, paramSet)
	if err != nil {
		return fmt.Errorf("build feature pipeline: %w", err)
	}

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}
	if graphClient != nil {
		defer func() {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}()
	}

	var repo *repository.Repository
	if graphClient != nil {
		repo = repository.New(graphClient)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare graph schema: %w", err)
		}
	}

	txs, err := loadHistory(ctx, cfg.History, repo)
	if err != nil {
		return fmt.Errorf("load historical context from %s: %w", cfg.History.Source, err)
	}
	logger.Info("historical context loaded", "transactions", len(txs), "source", cfg.History.Source)

	scoring := service.NewScoringService(pipeline, classifier.NewAdapter(model), history.NewStore(txs), logger)
	if repo != nil {
		scoring.WithRepository(repo)
	}

	deps := server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		API:              server.NewAPIHandlers(logger, scoring),
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
	}
	if cfg.HTTP.MetricsEnabled {
		reg := metrics.NewRegistry()
		rec := metrics.NewRecorder(reg)
		scoring.WithMetrics(rec)
		deps.Metrics = rec
		deps.MetricsHandler = metrics.Handler(reg)
	}

	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, deps))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	return serveErr
}

func loadParams(ctx context.Context, cfg config.ParamsConfig) (*params.Set, error) {
	if cfg.Source != config.ParamsSourceRedis {
		return params.LoadFile(cfg.Path)
	}

	client := params.NewRedisClient(params.RedisOptions{
		Addrs:    cfg.RedisAddrs,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return params.NewRedisSource(client, cfg.RedisPrefix).Load(ctx)
}

func buildPipeline(cfg config.FeatureConfig, set *params.Set) (*features.Pipeline, error) {
	policy, err := features.ParseMissingPolicy(cfg.MissingPolicy)
	if err != nil {
		return nil, err
	}
	return set.Pipeline(
		features.DeriverOptions{CountCurrentGap: cfg.CountCurrentGap},
		features.AlignerOptions{Missing: policy, Strict: cfg.StrictSchema},
	)
}

func loadHistory(ctx context.Context, cfg config.HistoryConfig, repo *repository.Repository) ([]domain.Transaction, error) {
	switch cfg.Source {
	case config.HistorySourceNone:
		return nil, nil
	case config.HistorySourceGraph:
		if repo == nil {
			return nil, graph.ErrMissingURI
		}
		return repo.LoadHistory(ctx, repository.LoadOptions{})
	default:
		if cfg.Path == "" {
			return nil, nil
		}
		return history.LoadFile(cfg.Path)
	}
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		logger.Info("graph persistence disabled")
		return nil, nil
	}
	client, err := graph.NewNeo4jClient(ctx, graph.OptionsFromConfig(cfg.Graph))
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
