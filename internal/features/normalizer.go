package features

import (
	"fmt"

	"github.com/vanshika/fraudscore/internal/domain"
)

// Scale holds the training-distribution statistics for one column.
type Scale struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Normalizer standardizes vectors with fixed, persisted parameters.
type Normalizer struct {
	scales [Width]Scale
}

// NewNormalizer requires parameters for every column.
func NewNormalizer(scaler map[string]Scale) (*Normalizer, error) {
	n := &Normalizer{}
	for i, name := range Columns {
		s, ok := scaler[name]
		if !ok {
			return nil, fmt.Errorf("%w: no scaler parameters for column %q", domain.ErrSchemaMismatch, name)
		}
		n.scales[i] = s
	}
	return n, nil
}

// Normalize applies (x - mean) / std per column. Columns with std == 0 pass through.
func (n *Normalizer) Normalize(v Vector) Vector {
	var out Vector
	for i, x := range v {
		s := n.scales[i]
		if s.Std == 0 {
			out[i] = x
			continue
		}
		out[i] = (x - s.Mean) / s.Std
	}
	return out
}

// Denormalize inverts Normalize.
func (n *Normalizer) Denormalize(v Vector) Vector {
	var out Vector
	for i, z := range v {
		s := n.scales[i]
		if s.Std == 0 {
			out[i] = z
			continue
		}
		out[i] = z*s.Std + s.Mean
	}
	return out
}
