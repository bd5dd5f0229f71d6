package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vanshika/fraudscore/internal/classifier"
	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/features"
	"github.com/vanshika/fraudscore/internal/history"
	"github.com/vanshika/fraudscore/internal/metrics"
)

// HistoryRepository persists observed transactions.
type HistoryRepository interface {
	UpsertTransaction(ctx context.Context, tx domain.Transaction) error
	UpsertTransactions(ctx context.Context, txs []domain.Transaction) error
}

// Classifier maps a normalized feature vector to a verdict.
type Classifier interface {
	Classify(ctx context.Context, vec features.Vector) (domain.Verdict, error)
}

// ScoringService runs the feature pipeline and classifier for one transaction
// at a time against the shared historical context.
type ScoringService struct {
	pipeline   *features.Pipeline
	classifier Classifier
	store      *history.Store
	repo       HistoryRepository
	metrics    *metrics.Recorder
	logger     *slog.Logger
	nowFn      func() time.Time
	newID      func() string
}

// NewScoringService wires the read-only pipeline state built at startup.
func NewScoringService(pipeline *features.Pipeline, classifier Classifier, store *history.Store, logger *slog.Logger) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = history.NewStore(nil)
	}
	return &ScoringService{
		pipeline:   pipeline,
		classifier: classifier,
		store:      store,
		logger:     logger,
		nowFn:      time.Now,
		newID:      func() string { return uuid.NewString() },
	}
}

// WithRepository persists recorded transactions to the graph as well.
func (s *ScoringService) WithRepository(repo HistoryRepository) {
	s.repo = repo
}

// WithMetrics attaches a Prometheus recorder.
func (s *ScoringService) WithMetrics(rec *metrics.Recorder) {
	s.metrics = rec
	s.metrics.SetHistorySize(s.store.Len())
}

// WithClock overrides the time provider (used primarily in tests).
func (s *ScoringService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// WithIDGenerator overrides score id generation (used primarily in tests).
func (s *ScoringService) WithIDGenerator(newID func() string) {
	if newID != nil {
		s.newID = newID
	}
}

// Score derives the feature vector for input and classifies it. Every failure
// is returned; there is no default verdict.
func (s *ScoringService) Score(ctx context.Context, input TransactionInput) (ScoreResult, error) {
	start := s.nowFn()

	tx, err := input.Parse()
	if err != nil {
		s.observe(metrics.OutcomeInvalidInput, start)
		return ScoreResult{}, err
	}

	built, err := s.pipeline.Build(tx, s.store.Snapshot())
	if err != nil {
		s.observe(outcomeFor(err), start)
		return ScoreResult{}, fmt.Errorf("build features: %w", err)
	}

	verdict, err := s.classifier.Classify(ctx, built.Normalized)
	if err != nil {
		s.observe(metrics.OutcomeError, start)
		s.logger.Error("classification failed",
			slog.String("trans_num", tx.TransNum),
			slog.Any("error", err),
		)
		return ScoreResult{}, fmt.Errorf("classify: %w", err)
	}

	outcome := metrics.OutcomeNotFraud
	if verdict == domain.Fraud {
		outcome = metrics.OutcomeFraud
	}
	s.observe(outcome, start)

	result := ScoreResult{
		ScoreID:    s.newID(),
		TransNum:   tx.TransNum,
		Verdict:    verdict,
		Features:   built.Raw.Map(),
		Normalized: built.Normalized.Map(),
		ScoredAt:   s.nowFn().UTC(),
	}
	s.logger.Debug("transaction scored",
		slog.String("score_id", result.ScoreID),
		slog.String("trans_num", tx.TransNum),
		slog.Int("label", result.Label()),
	)
	return result, nil
}

// Record appends an observed transaction to the historical context, persisting
// it first when a repository is configured.
func (s *ScoringService) Record(ctx context.Context, input TransactionInput) (RecordResult, error) {
	tx, err := input.Parse()
	if err != nil {
		return RecordResult{}, err
	}

	persisted := false
	if s.repo != nil {
		if err := s.repo.UpsertTransaction(ctx, tx); err != nil {
			return RecordResult{}, fmt.Errorf("persist transaction: %w", err)
		}
		persisted = true
	}

	added := s.store.Append(tx)
	size := s.store.Len()
	s.metrics.ObserveRecorded(added, size)

	return RecordResult{
		TransNum:    tx.TransNum,
		Added:       added > 0,
		HistorySize: size,
		Persisted:   persisted,
	}, nil
}

// HistorySize reports the number of transactions in the context.
func (s *ScoringService) HistorySize() int {
	return s.store.Len()
}

func (s *ScoringService) observe(outcome string, start time.Time) {
	s.metrics.ObserveScore(outcome, s.nowFn().Sub(start))
}

// IsInvalidInput reports whether err was caused by the submitted transaction
// rather than by the service.
func IsInvalidInput(err error) bool {
	return errors.Is(err, domain.ErrInvalidTimestamp) ||
		errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidCardNumber)
}

func outcomeFor(err error) string {
	if IsInvalidInput(err) {
		return metrics.OutcomeInvalidInput
	}
	return metrics.OutcomeError
}

var _ Classifier = (*classifier.Adapter)(nil)
