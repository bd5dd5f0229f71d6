package generator

import "time"

// Config drives the synthetic history generator.
type Config struct {
	NumCards        int
	NumMerchants    int
	NumTransactions int
	// Start and Span bound the generated timestamps.
	Start time.Time
	Span  time.Duration
	// BurstChance is the probability that a transaction follows the card's
	// previous one within the hour.
	BurstChance float64
	Seed        int64
}

// DefaultConfig returns settings that produce a history comparable in shape to
// the public card-fraud test set.
func DefaultConfig() Config {
	return Config{
		NumCards:        1000,
		NumMerchants:    200,
		NumTransactions: 50000,
		Start:           time.Date(2020, 6, 21, 0, 0, 0, 0, time.UTC),
		Span:            180 * 24 * time.Hour,
		BurstChance:     0.15,
		Seed:            42,
	}
}
