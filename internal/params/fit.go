package params

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/features"
	"github.com/vanshika/fraudscore/internal/history"
)

// ErrEmptyCorpus is returned when Fit receives no transactions.
var ErrEmptyCorpus = errors.New("cannot fit parameters on an empty corpus")

// ErrDuplicateTransNum is returned when two corpus rows share a transaction reference.
var ErrDuplicateTransNum = errors.New("duplicate transaction reference in corpus")

// Fit derives every corpus row against the whole corpus and records the name
// vocabulary and per-column population statistics. Same-card rows with equal
// timestamps are ordered by their position in txs.
func Fit(txs []domain.Transaction, opts features.DeriverOptions) (*Set, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyCorpus
	}
	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if tx.TransNum == "" {
			return nil, fmt.Errorf("%w: empty reference for card %d", ErrDuplicateTransNum, tx.CardNumber)
		}
		if _, dup := seen[tx.TransNum]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTransNum, tx.TransNum)
		}
		seen[tx.TransNum] = struct{}{}
	}

	names := FitNames(txs)
	vectors, err := corpusVectors(txs, names, opts)
	if err != nil {
		return nil, err
	}

	// Welford running moments.
	var mean, m2 [features.Width]float64
	for k, vec := range vectors {
		count := float64(k + 1)
		for i, x := range vec {
			delta := x - mean[i]
			mean[i] += delta / count
			m2[i] += delta * (x - mean[i])
		}
	}

	n := float64(len(txs))
	scaler := make(map[string]features.Scale, features.Width)
	for i, name := range features.Columns {
		scaler[name] = features.Scale{Mean: mean[i], Std: math.Sqrt(m2[i] / n)}
	}

	columns := make([]string, features.Width)
	copy(columns, features.Columns[:])
	return &Set{
		Columns: columns,
		Scaler:  scaler,
		Names:   names,
	}, nil
}

// FitNames assigns codes to unique full names in sorted order.
func FitNames(txs []domain.Transaction) map[string]int {
	unique := make(map[string]struct{})
	for _, tx := range txs {
		unique[tx.FullName()] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for name := range unique {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	for i, name := range sorted {
		codes[name] = i
	}
	return codes
}

type groupSum struct {
	sum   float64
	count int
}

func (g groupSum) diff(amount float64) float64 {
	return amount - g.sum/float64(g.count)
}

// corpusVectors returns the aligned vector of every row in time order. Group
// means come from running totals and each card's rows are walked once, so the
// cost is linear in the corpus after sorting.
func corpusVectors(txs []domain.Transaction, names map[string]int, opts features.DeriverOptions) ([]features.Vector, error) {
	ordered := make([]domain.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time.Before(ordered[j].Time)
	})

	amounts := make([]float64, len(ordered))
	byCard := make(map[int64][]int)
	cards := make(map[int64]groupSum)
	categories := make(map[domain.Category]groupSum)
	merchants := make(map[string]groupSum)
	add := func(g groupSum, amount float64) groupSum {
		return groupSum{sum: g.sum + amount, count: g.count + 1}
	}
	for i, tx := range ordered {
		amounts[i] = tx.AmountFloat()
		byCard[tx.CardNumber] = append(byCard[tx.CardNumber], i)
		cards[tx.CardNumber] = add(cards[tx.CardNumber], amounts[i])
		categories[tx.Category] = add(categories[tx.Category], amounts[i])
		merchants[tx.Merchant] = add(merchants[tx.Merchant], amounts[i])
	}

	timeDiff := make([]float64, len(ordered))
	lastHour := make([]float64, len(ordered))
	for _, rows := range byCard {
		running := 0
		for j := 1; j < len(rows); j++ {
			gap := ordered[rows[j]].Time.Sub(ordered[rows[j-1]].Time)
			timeDiff[rows[j]] = gap.Seconds()
			before := running
			if gap < time.Hour {
				running++
			}
			if opts.CountCurrentGap {
				lastHour[rows[j]] = float64(running)
			} else {
				lastHour[rows[j]] = float64(before)
			}
		}
	}

	deriver := features.NewDeriver(opts)
	encoder := features.NewEncoder(names)
	aligner := features.NewAligner(features.AlignerOptions{Missing: features.MissingReject})
	empty := history.Empty()

	out := make([]features.Vector, len(ordered))
	for i, tx := range ordered {
		derived := deriver.Derive(tx, empty)
		derived[features.ColTimeDiffPrev] = timeDiff[i]
		derived[features.ColAmountDiffCard] = cards[tx.CardNumber].diff(amounts[i])
		derived[features.ColAmountDiffCat] = categories[tx.Category].diff(amounts[i])
		derived[features.ColAmountDiffMer] = merchants[tx.Merchant].diff(amounts[i])
		derived[features.ColTransactionsLastHour] = lastHour[i]

		encoded, err := encoder.Encode(tx)
		if err != nil {
			return nil, fmt.Errorf("derive features for %s: %w", tx.TransNum, err)
		}
		vec, err := aligner.Align(derived, encoded)
		if err != nil {
			return nil, fmt.Errorf("derive features for %s: %w", tx.TransNum, err)
		}
		out[i] = vec
	}
	return out, nil
}
