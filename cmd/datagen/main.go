package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/fraudscore/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		cards        = flag.Int("cards", cfg.NumCards, "number of cards to generate")
		merchants    = flag.Int("merchants", cfg.NumMerchants, "number of merchants to generate")
		transactions = flag.Int("transactions", cfg.NumTransactions, "number of transactions to generate")
		start        = flag.String("start", cfg.Start.Format(time.DateOnly), "first day of generated history (YYYY-MM-DD)")
		spanDays     = flag.Int("span-days", int(cfg.Span/(24*time.Hour)), "days of history to cover")
		burstChance  = flag.Float64("burst-chance", cfg.BurstChance, "probability a card transacts again within the hour")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir    = flag.String("output-dir", "data", "directory to write transactions.json and transactions.csv")
		writeStdout  = flag.Bool("stdout", false, "write the dataset to stdout instead of files")
	)
	flag.Parse()

	startAt, err := time.ParseInLocation(time.DateOnly, *start, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -start: %v\n", err)
		os.Exit(1)
	}

	genCfg := generator.Config{
		NumCards:        *cards,
		NumMerchants:    *merchants,
		NumTransactions: *transactions,
		Start:           startAt,
		Span:            time.Duration(*spanDays) * 24 * time.Hour,
		BurstChance:     clampProbability(*burstChance),
		Seed:            *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset.Transactions); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d transactions into %s\n", len(dataset.Transactions), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
