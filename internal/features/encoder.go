package features

import (
	"fmt"

	"github.com/vanshika/fraudscore/internal/domain"
)

// Encoder turns categorical transaction fields into numeric features using a
// vocabulary fitted on the training corpus.
type Encoder struct {
	names   map[string]int
	unknown int
}

// NewEncoder builds an encoder over a full-name vocabulary. Names missing from
// the vocabulary share one out-of-vocabulary code placed after the largest known code.
func NewEncoder(names map[string]int) *Encoder {
	vocab := make(map[string]int, len(names))
	unknown := 0
	for name, code := range names {
		vocab[name] = code
		if code >= unknown {
			unknown = code + 1
		}
	}
	return &Encoder{names: vocab, unknown: unknown}
}

// EncodeCategory returns the fourteen category indicators with exactly one set.
func (e *Encoder) EncodeCategory(category domain.Category) (Partial, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, string(category))
	}
	out := make(Partial, len(domain.Categories))
	for _, c := range domain.Categories {
		out[CategoryColumn(c)] = 0
	}
	out[CategoryColumn(category)] = 1
	return out, nil
}

// EncodeName maps first+last to its vocabulary code.
func (e *Encoder) EncodeName(first, last string) float64 {
	if code, ok := e.names[first+last]; ok {
		return float64(code)
	}
	return float64(e.unknown)
}

// UnknownCode is the code assigned to names outside the vocabulary.
func (e *Encoder) UnknownCode() int {
	return e.unknown
}

// Encode produces every categorical feature for tx.
func (e *Encoder) Encode(tx domain.Transaction) (Partial, error) {
	out, err := e.EncodeCategory(tx.Category)
	if err != nil {
		return nil, err
	}
	out[ColFullName] = e.EncodeName(tx.FirstName, tx.LastName)
	return out, nil
}
