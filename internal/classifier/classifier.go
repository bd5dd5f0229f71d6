// Package classifier adapts a trained binary model to the fraud verdict.
package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/features"
)

// ErrInvalidLabel is returned when a model emits a label outside {0, 1}.
var ErrInvalidLabel = errors.New("model returned an invalid label")

// Predictor is any trained model that maps one feature row to a class label.
type Predictor interface {
	Predict(ctx context.Context, row []float64) (int, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, row []float64) (int, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, row []float64) (int, error) {
	return f(ctx, row)
}

// Adapter turns predictor labels into verdicts.
type Adapter struct {
	predictor Predictor
}

// NewAdapter wraps a predictor.
func NewAdapter(predictor Predictor) *Adapter {
	return &Adapter{predictor: predictor}
}

// Classify runs the model on one normalized vector.
func (a *Adapter) Classify(ctx context.Context, vec features.Vector) (domain.Verdict, error) {
	if a == nil || a.predictor == nil {
		return domain.NotFraud, domain.ErrModelUnavailable
	}
	label, err := a.predictor.Predict(ctx, vec.Slice())
	if err != nil {
		return domain.NotFraud, fmt.Errorf("predict: %w", err)
	}
	switch label {
	case 1:
		return domain.Fraud, nil
	case 0:
		return domain.NotFraud, nil
	default:
		return domain.NotFraud, fmt.Errorf("%w: %d", ErrInvalidLabel, label)
	}
}
