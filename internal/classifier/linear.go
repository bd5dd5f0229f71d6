package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/features"
)

// KindLogistic is the only artifact kind Load understands.
const KindLogistic = "logistic"

// LinearModel is a logistic regression exported from the training notebook.
type LinearModel struct {
	Kind      string    `json:"kind"`
	Columns   []string  `json:"columns"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
}

// Load reads a model artifact. Any failure wraps domain.ErrModelUnavailable.
func Load(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}
	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrModelUnavailable, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the artifact matches the feature layout.
func (m *LinearModel) Validate() error {
	if m.Kind != KindLogistic {
		return fmt.Errorf("%w: unsupported model kind %q", domain.ErrModelUnavailable, m.Kind)
	}
	if len(m.Columns) != features.Width || len(m.Weights) != features.Width {
		return fmt.Errorf("%w: model expects %d columns and %d weights, want %d",
			domain.ErrModelUnavailable, len(m.Columns), len(m.Weights), features.Width)
	}
	for i, name := range features.Columns {
		if m.Columns[i] != name {
			return fmt.Errorf("%w: model column %d is %q, want %q", domain.ErrModelUnavailable, i, m.Columns[i], name)
		}
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return fmt.Errorf("%w: threshold %v outside (0, 1)", domain.ErrModelUnavailable, m.Threshold)
	}
	return nil
}

// Probability returns the fraud probability for row.
func (m *LinearModel) Probability(row []float64) (float64, error) {
	if len(row) != len(m.Weights) {
		return 0, fmt.Errorf("%w: got %d features, want %d", domain.ErrSchemaMismatch, len(row), len(m.Weights))
	}
	z := m.Bias
	for i, x := range row {
		z += m.Weights[i] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict labels row 1 when the probability reaches the threshold.
func (m *LinearModel) Predict(ctx context.Context, row []float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p, err := m.Probability(row)
	if err != nil {
		return 0, err
	}
	if p >= m.Threshold {
		return 1, nil
	}
	return 0, nil
}
