// Package params holds the statistics fitted on the training corpus that the
// feature pipeline must reuse verbatim at inference time.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/features"
)

// ErrNoParameters is returned when a source holds no parameter set.
var ErrNoParameters = errors.New("feature parameters not found")

// Set is the persisted parameter store shared by the encoder and the normalizer.
type Set struct {
	Columns []string                  `json:"columns"`
	Scaler  map[string]features.Scale `json:"scaler"`
	Names   map[string]int            `json:"names"`
}

// Validate ensures the set covers the fixed column layout.
func (s *Set) Validate() error {
	if s == nil {
		return ErrNoParameters
	}
	if len(s.Columns) != features.Width {
		return fmt.Errorf("%w: parameter set has %d columns, want %d", domain.ErrSchemaMismatch, len(s.Columns), features.Width)
	}
	for i, name := range features.Columns {
		if s.Columns[i] != name {
			return fmt.Errorf("%w: column %d is %q, want %q", domain.ErrSchemaMismatch, i, s.Columns[i], name)
		}
		scale, ok := s.Scaler[name]
		if !ok {
			return fmt.Errorf("%w: no scaler parameters for column %q", domain.ErrSchemaMismatch, name)
		}
		if math.IsNaN(scale.Mean) || math.IsNaN(scale.Std) || scale.Std < 0 {
			return fmt.Errorf("%w: invalid scaler parameters for column %q", domain.ErrSchemaMismatch, name)
		}
	}
	return nil
}

// Means returns the training mean per column.
func (s *Set) Means() map[string]float64 {
	out := make(map[string]float64, len(s.Scaler))
	for name, scale := range s.Scaler {
		out[name] = scale.Mean
	}
	return out
}

// Encoder builds the categorical encoder over the fitted name vocabulary.
func (s *Set) Encoder() *features.Encoder {
	return features.NewEncoder(s.Names)
}

// Normalizer builds the vector normalizer over the fitted scaler.
func (s *Set) Normalizer() (*features.Normalizer, error) {
	return features.NewNormalizer(s.Scaler)
}

// Pipeline assembles the feature pipeline over this parameter set. Training
// means are supplied to the aligner for MissingMean.
func (s *Set) Pipeline(derive features.DeriverOptions, align features.AlignerOptions) (*features.Pipeline, error) {
	norm, err := s.Normalizer()
	if err != nil {
		return nil, err
	}
	if align.Means == nil {
		align.Means = s.Means()
	}
	return features.NewPipeline(
		features.NewDeriver(derive),
		s.Encoder(),
		features.NewAligner(align),
		norm,
	), nil
}

// LoadFile reads a parameter set written by WriteFile.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoParameters, path)
		}
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode parameters %s: %w", path, err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// WriteFile persists the set as indented JSON, creating parent directories.
func WriteFile(path string, set *Set) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parameter directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write parameters: %w", err)
	}
	return nil
}
