package features

import (
	"errors"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/history"
)

// Result carries both the aligned raw vector and the normalized classifier input.
type Result struct {
	Raw        Vector
	Normalized Vector
}

// Pipeline runs derive, encode, align and normalize in order.
type Pipeline struct {
	deriver    *Deriver
	encoder    *Encoder
	aligner    *Aligner
	normalizer *Normalizer
}

// NewPipeline wires the pipeline stages.
func NewPipeline(deriver *Deriver, encoder *Encoder, aligner *Aligner, normalizer *Normalizer) *Pipeline {
	return &Pipeline{
		deriver:    deriver,
		encoder:    encoder,
		aligner:    aligner,
		normalizer: normalizer,
	}
}

// Vectorize derives, encodes and aligns tx without normalizing.
func (p *Pipeline) Vectorize(tx domain.Transaction, ctx *history.Context) (Vector, error) {
	derived := p.deriver.Derive(tx, ctx)
	encoded, err := p.encoder.Encode(tx)
	if err != nil {
		return Vector{}, err
	}
	return p.aligner.Align(derived, encoded)
}

// Build produces the classifier input for tx against ctx.
func (p *Pipeline) Build(tx domain.Transaction, ctx *history.Context) (Result, error) {
	if p.normalizer == nil {
		return Result{}, errors.New("pipeline has no normalizer")
	}
	raw, err := p.Vectorize(tx, ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Raw:        raw,
		Normalized: p.normalizer.Normalize(raw),
	}, nil
}
