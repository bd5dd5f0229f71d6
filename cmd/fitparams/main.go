package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/fraudscore/internal/config"
	"github.com/vanshika/fraudscore/internal/features"
	"github.com/vanshika/fraudscore/internal/history"
	"github.com/vanshika/fraudscore/internal/logging"
	"github.com/vanshika/fraudscore/internal/params"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		dataset         = flag.String("dataset", "data/transactions.csv", "Path to the training history (.json or .csv)")
		output          = flag.String("output", cfg.Params.Path, "Where to write the fitted parameter set")
		countCurrentGap = flag.Bool("count-current-gap", cfg.Features.CountCurrentGap, "Count the gap to the current transaction in transactions_last_hour")
		publishRedis    = flag.Bool("publish-redis", false, "Also publish the parameters to Redis")
	)
	flag.Parse()

	logger := logging.New(cfg.Logging).With("component", "fitparams")

	txs, err := history.LoadFile(*dataset)
	if err != nil {
		logger.Error("failed to load training history", "error", err, "path", *dataset)
		os.Exit(1)
	}

	start := time.Now()
	set, err := params.Fit(txs, features.DeriverOptions{CountCurrentGap: *countCurrentGap})
	if err != nil {
		logger.Error("fitting parameters failed", "error", err)
		os.Exit(1)
	}
	logger.Info("parameters fitted",
		"transactions", len(txs),
		"names", len(set.Names),
		"duration", time.Since(start).String(),
	)

	if err := params.WriteFile(*output, set); err != nil {
		logger.Error("failed to write parameters", "error", err, "path", *output)
		os.Exit(1)
	}
	logger.Info("parameters written", "path", *output)

	if !*publishRedis {
		return
	}

	client := params.NewRedisClient(params.RedisOptions{
		Addrs:    cfg.Params.RedisAddrs,
		Password: cfg.Params.RedisPassword,
		DB:       cfg.Params.RedisDB,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := params.NewRedisSource(client, cfg.Params.RedisPrefix).Publish(ctx, set); err != nil {
		logger.Error("failed to publish parameters", "error", err)
		os.Exit(1)
	}
	logger.Info("parameters published", "addrs", cfg.Params.RedisAddrs, "prefix", cfg.Params.RedisPrefix)
}
