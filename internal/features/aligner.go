package features

import (
	"fmt"
	"strings"

	"github.com/vanshika/fraudscore/internal/domain"
)

// MissingPolicy decides what happens when an expected column has no value.
type MissingPolicy int

const (
	// MissingZero fills 0, which is what the deployed form did.
	MissingZero MissingPolicy = iota
	// MissingMean imputes the training mean, which normalizes to 0.
	MissingMean
	// MissingReject fails the request.
	MissingReject
)

// ParseMissingPolicy accepts zero, mean or reject.
func ParseMissingPolicy(value string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "zero":
		return MissingZero, nil
	case "mean":
		return MissingMean, nil
	case "reject":
		return MissingReject, nil
	default:
		return MissingZero, fmt.Errorf("unknown missing-value policy %q", value)
	}
}

func (p MissingPolicy) String() string {
	switch p {
	case MissingMean:
		return "mean"
	case MissingReject:
		return "reject"
	default:
		return "zero"
	}
}

// AlignerOptions configures schema alignment.
type AlignerOptions struct {
	Missing MissingPolicy
	// Strict turns unexpected columns into ErrSchemaMismatch instead of dropping them.
	Strict bool
	// Means holds the training mean per column, used by MissingMean.
	Means map[string]float64
}

// Aligner projects named features onto the fixed Columns layout.
type Aligner struct {
	opts AlignerOptions
}

// NewAligner constructs an Aligner.
func NewAligner(opts AlignerOptions) *Aligner {
	return &Aligner{opts: opts}
}

// Align merges parts and emits a vector in Columns order.
func (a *Aligner) Align(parts ...Partial) (Vector, error) {
	merged := Merge(parts...)

	if a.opts.Strict {
		for name := range merged {
			if _, ok := ColumnIndex(name); !ok {
				return Vector{}, fmt.Errorf("%w: unexpected column %q", domain.ErrSchemaMismatch, name)
			}
		}
	}

	var vec Vector
	for i, name := range Columns {
		if v, ok := merged[name]; ok {
			vec[i] = v
			continue
		}
		switch a.opts.Missing {
		case MissingReject:
			return Vector{}, fmt.Errorf("%w: missing column %q", domain.ErrSchemaMismatch, name)
		case MissingMean:
			vec[i] = a.opts.Means[name]
		default:
			vec[i] = 0
		}
	}
	return vec, nil
}
