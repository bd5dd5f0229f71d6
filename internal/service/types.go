package service

import (
	"time"

	"github.com/vanshika/fraudscore/internal/domain"
)

// TransactionInput is the inbound payload for scoring and recording.
type TransactionInput = domain.RawTransaction

// ScoreResult is the outcome of scoring one transaction.
type ScoreResult struct {
	ScoreID    string
	TransNum   string
	Verdict    domain.Verdict
	Features   map[string]float64
	Normalized map[string]float64
	ScoredAt   time.Time
}

// Label is the numeric class emitted by the classifier.
func (r ScoreResult) Label() int {
	return r.Verdict.Label()
}

// Message is the human-readable verdict.
func (r ScoreResult) Message() string {
	return r.Verdict.String()
}

// RecordResult reports how a recorded transaction was applied.
type RecordResult struct {
	TransNum    string
	Added       bool
	HistorySize int
	Persisted   bool
}
