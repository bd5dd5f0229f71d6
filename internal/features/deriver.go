package features

import (
	"time"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/history"
)

// DeriverOptions tunes feature derivation.
type DeriverOptions struct {
	// CountCurrentGap includes the gap between the scored transaction and its
	// predecessor in transactions_last_hour. Training computed the running count
	// over every row, so true matches the model.
	CountCurrentGap bool
}

// DefaultDeriverOptions matches how the training features were computed.
func DefaultDeriverOptions() DeriverOptions {
	return DeriverOptions{CountCurrentGap: true}
}

// Deriver computes engineered features for one transaction against historical context.
type Deriver struct {
	opts DeriverOptions
}

// NewDeriver constructs a Deriver.
func NewDeriver(opts DeriverOptions) *Deriver {
	return &Deriver{opts: opts}
}

// Derive computes the numeric, time and group-statistic features. It does not
// modify ctx. Context rows sharing the scored transaction's TransNum are ignored.
func (d *Deriver) Derive(tx domain.Transaction, ctx *history.Context) Partial {
	amount := tx.AmountFloat()
	card := withoutTransNum(ctx.ByCard(tx.CardNumber), tx.TransNum)
	category := withoutTransNum(ctx.ByCategory(tx.Category), tx.TransNum)
	merchant := withoutTransNum(ctx.ByMerchant(tx.Merchant), tx.TransNum)

	return Partial{
		ColCardNumber:           float64(tx.CardNumber),
		ColAmount:               amount,
		ColTimeSeconds:          float64(epochSeconds(tx.Time)),
		ColTimeDiffPrev:         timeDiffPrev(tx.Time, card),
		ColAmountDiffCard:       amountDiff(amount, card),
		ColAmountDiffCat:        amountDiff(amount, category),
		ColAmountDiffMer:        amountDiff(amount, merchant),
		ColTransactionsLastHour: d.transactionsLastHour(tx.Time, card),
	}
}

// epochSeconds truncates toward zero, also for instants before 1970.
func epochSeconds(t time.Time) int64 {
	secs := t.Unix()
	if secs < 0 && t.Nanosecond() > 0 {
		secs++
	}
	return secs
}

func timeDiffPrev(at time.Time, card []domain.Transaction) float64 {
	var prev *time.Time
	for i := range card {
		if card[i].Time.After(at) {
			break
		}
		prev = &card[i].Time
	}
	if prev == nil {
		return 0
	}
	return at.Sub(*prev).Seconds()
}

// amountDiff returns amount minus the mean of the group including amount itself.
func amountDiff(amount float64, group []domain.Transaction) float64 {
	if len(group) == 0 {
		// The group is only the current transaction, so the mean is amount.
		return 0
	}
	sum := amount
	for _, tx := range group {
		sum += tx.AmountFloat()
	}
	mean := sum / float64(len(group)+1)
	return amount - mean
}

func (d *Deriver) transactionsLastHour(at time.Time, card []domain.Transaction) float64 {
	times := make([]time.Time, 0, len(card)+1)
	for _, tx := range card {
		if tx.Time.After(at) {
			break
		}
		times = append(times, tx.Time)
	}
	times = append(times, at)

	last := len(times) - 1
	if !d.opts.CountCurrentGap {
		last--
	}

	count := 0
	for i := 1; i <= last; i++ {
		if times[i].Sub(times[i-1]) < time.Hour {
			count++
		}
	}
	return float64(count)
}

func withoutTransNum(txs []domain.Transaction, transNum string) []domain.Transaction {
	if transNum == "" {
		return txs
	}
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.TransNum == transNum {
			continue
		}
		out = append(out, tx)
	}
	return out
}
