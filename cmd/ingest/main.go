package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vanshika/fraudscore/internal/config"
	"github.com/vanshika/fraudscore/internal/graph"
	"github.com/vanshika/fraudscore/internal/history"
	"github.com/vanshika/fraudscore/internal/logging"
	"github.com/vanshika/fraudscore/internal/repository"
	"github.com/vanshika/fraudscore/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "./data", "Directory containing transactions.json or transactions.csv")
		dataset    = flag.String("dataset", "", "Path to a .json or .csv dataset (overrides dataset-dir)")
		workers    = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
		batchSize  = flag.Int("batch-size", 500, "Transactions written per graph statement")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *datasetDir, *dataset, *workers, *batchSize); err != nil {
		logger.Error("ingestion failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, datasetDir, dataset string, workers, batchSize int) error {
	path, err := resolveDatasetPath(datasetDir, dataset)
	if err != nil {
		return err
	}

	txs, err := history.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load transactions from %s: %w", path, err)
	}
	if len(txs) == 0 {
		return fmt.Errorf("transactions dataset %s is empty", path)
	}

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("prepare graph schema: %w", err)
	}
	ingestor := service.NewBulkIngestor(repo, workers, batchSize)

	start := time.Now()
	logger.Info("ingesting transactions", "count", len(txs), "workers", workers, "batch_size", batchSize)
	if err := ingestor.IngestTransactions(ctx, txs); err != nil {
		return fmt.Errorf("ingest transactions: %w", err)
	}

	total, err := repo.CountTransactions(ctx)
	if err != nil {
		logger.Warn("could not count persisted transactions", "error", err)
	}
	logger.Info("ingestion complete", "duration", time.Since(start).String(), "transactions", len(txs), "graph_total", total)
	return nil
}

func resolveDatasetPath(baseDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("stat %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	for _, name := range []string{"transactions.json", "transactions.csv"} {
		path := filepath.Join(baseDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errMissingDataset, baseDir)
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	client, err := graph.NewNeo4jClient(ctx, graph.OptionsFromConfig(cfg.Graph))
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
