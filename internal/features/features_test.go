package features

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fraudscore/internal/domain"
	"github.com/vanshika/fraudscore/internal/history"
)

func mustTx(t *testing.T, card int64, ts, merchant string, category domain.Category, amount, transNum string) domain.Transaction {
	t.Helper()
	parsed, err := domain.ParseTime(ts)
	require.NoError(t, err)
	return domain.Transaction{
		Time:       parsed,
		CardNumber: card,
		Merchant:   merchant,
		Category:   category,
		Amount:     decimal.RequireFromString(amount),
		FirstName:  "Ann",
		LastName:   "Lee",
		TransNum:   transNum,
	}
}

func identityScaler() map[string]Scale {
	scaler := make(map[string]Scale, Width)
	for _, name := range Columns {
		scaler[name] = Scale{Mean: 0, Std: 1}
	}
	return scaler
}

func TestColumns_FixedLayout(t *testing.T) {
	require.Len(t, Columns, 23)
	assert.Equal(t, ColCardNumber, Columns[0])
	assert.Equal(t, ColFullName, Columns[22])
	for _, c := range domain.Categories {
		_, ok := ColumnIndex(CategoryColumn(c))
		assert.True(t, ok, "missing column for %s", c)
	}
}

func TestDerive_EmptyContext(t *testing.T) {
	d := NewDeriver(DefaultDeriverOptions())
	tx := mustTx(t, 1234, "2023-01-01 00:00:00", "X", domain.CategoryHome, "50.00", "T1")

	got := d.Derive(tx, history.Empty())

	assert.Equal(t, 1234.0, got[ColCardNumber])
	assert.Equal(t, 50.0, got[ColAmount])
	assert.Equal(t, 1672531200.0, got[ColTimeSeconds])
	assert.Zero(t, got[ColTimeDiffPrev])
	assert.Zero(t, got[ColAmountDiffCard])
	assert.Zero(t, got[ColAmountDiffCat])
	assert.Zero(t, got[ColAmountDiffMer])
	assert.Zero(t, got[ColTransactionsLastHour])
}

func TestDerive_TimeDiffPrev(t *testing.T) {
	d := NewDeriver(DefaultDeriverOptions())
	ctx := history.NewContext([]domain.Transaction{
		mustTx(t, 1, "2023-01-01 00:00:00", "X", domain.CategoryHome, "10", "T0"),
		mustTx(t, 2, "2023-01-01 00:20:00", "X", domain.CategoryHome, "10", "T-other-card"),
		mustTx(t, 1, "2023-01-01 05:00:00", "X", domain.CategoryHome, "10", "T-future"),
	})
	tx := mustTx(t, 1, "2023-01-01 00:30:00", "X", domain.CategoryHome, "10", "T1")

	got := d.Derive(tx, ctx)
	assert.Equal(t, 1800.0, got[ColTimeDiffPrev])
}

func TestDerive_AmountDiffGroups(t *testing.T) {
	d := NewDeriver(DefaultDeriverOptions())
	ctx := history.NewContext([]domain.Transaction{
		mustTx(t, 1, "2023-01-01 00:00:00", "A", domain.CategoryHome, "10", "H1"),
		mustTx(t, 2, "2023-01-01 00:00:00", "B", domain.CategoryHome, "30", "H2"),
		mustTx(t, 3, "2023-01-01 00:00:00", "C", domain.CategoryTravel, "100", "H3"),
	})
	tx := mustTx(t, 1, "2023-01-02 00:00:00", "C", domain.CategoryHome, "40", "T1")

	got := d.Derive(tx, ctx)
	// card 1: mean(10, 40) = 25
	assert.InDelta(t, 15.0, got[ColAmountDiffCard], 1e-9)
	// home: mean(10, 30, 40) = 80/3
	assert.InDelta(t, 40.0-80.0/3.0, got[ColAmountDiffCat], 1e-9)
	// merchant C: mean(100, 40) = 70
	assert.InDelta(t, -30.0, got[ColAmountDiffMer], 1e-9)
}

func TestDerive_AmountDiffCardZeroWhenOnlyCurrent(t *testing.T) {
	d := NewDeriver(DefaultDeriverOptions())
	ctx := history.NewContext([]domain.Transaction{
		mustTx(t, 9, "2023-01-01 00:00:00", "X", domain.CategoryHome, "999", "H1"),
	})
	tx := mustTx(t, 1, "2023-01-02 00:00:00", "Y", domain.CategoryTravel, "40", "T1")

	got := d.Derive(tx, ctx)
	assert.Zero(t, got[ColAmountDiffCard])
	assert.Zero(t, got[ColAmountDiffCat])
	assert.Zero(t, got[ColAmountDiffMer])
}

func TestDerive_IgnoresSameTransNumInContext(t *testing.T) {
	d := NewDeriver(DefaultDeriverOptions())
	tx := mustTx(t, 1, "2023-01-01 00:30:00", "X", domain.CategoryHome, "40", "T1")
	ctx := history.NewContext([]domain.Transaction{tx})

	got := d.Derive(tx, ctx)
	assert.Zero(t, got[ColTimeDiffPrev])
	assert.Zero(t, got[ColAmountDiffCard])
	assert.Zero(t, got[ColTransactionsLastHour])
}

func TestDerive_TransactionsLastHour(t *testing.T) {
	ctx := history.NewContext([]domain.Transaction{
		mustTx(t, 1, "2023-01-01 00:00:00", "X", domain.CategoryHome, "1", "H1"),
		mustTx(t, 1, "2023-01-01 00:30:00", "X", domain.CategoryHome, "1", "H2"),
		mustTx(t, 1, "2023-01-01 03:00:00", "X", domain.CategoryHome, "1", "H3"),
	})
	tx := mustTx(t, 1, "2023-01-01 03:10:00", "X", domain.CategoryHome, "1", "T1")

	withCurrent := NewDeriver(DeriverOptions{CountCurrentGap: true}).Derive(tx, ctx)
	assert.Equal(t, 2.0, withCurrent[ColTransactionsLastHour])

	priorOnly := NewDeriver(DeriverOptions{CountCurrentGap: false}).Derive(tx, ctx)
	assert.Equal(t, 1.0, priorOnly[ColTransactionsLastHour])

	alone := NewDeriver(DeriverOptions{CountCurrentGap: false}).Derive(tx, history.Empty())
	assert.Zero(t, alone[ColTransactionsLastHour])
}

func TestEpochSecondsTruncatesTowardZero(t *testing.T) {
	ts, err := domain.ParseTime("1969-12-31 23:59:59")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), epochSeconds(ts))
	assert.Equal(t, int64(0), epochSeconds(ts.Add(999_000_000)))
}

func TestEncodeCategory_OneHot(t *testing.T) {
	enc := NewEncoder(nil)
	for _, c := range domain.Categories {
		got, err := enc.EncodeCategory(c)
		require.NoError(t, err)
		require.Len(t, got, 14)

		ones := 0
		for name, v := range got {
			if v == 1 {
				ones++
				assert.Equal(t, CategoryColumn(c), name)
			} else {
				assert.Zero(t, v)
			}
		}
		assert.Equal(t, 1, ones)
	}

	_, err := enc.EncodeCategory(domain.Category("gambling"))
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestEncodeName(t *testing.T) {
	enc := NewEncoder(map[string]int{"AnnLee": 0, "BobRay": 1})

	assert.Equal(t, 0.0, enc.EncodeName("Ann", "Lee"))
	assert.Equal(t, 1.0, enc.EncodeName("Bob", "Ray"))
	assert.Equal(t, 2.0, enc.EncodeName("Eve", "Stone"))
	assert.Equal(t, enc.EncodeName("Eve", "Stone"), enc.EncodeName("Eve", "Stone"))
	assert.Equal(t, 2, enc.UnknownCode())
}

func TestAlign_FillsMissingAndDropsExtras(t *testing.T) {
	a := NewAligner(AlignerOptions{})
	vec, err := a.Align(Partial{ColAmount: 5, "merchant_len": 3}, Partial{ColFullName: 7})
	require.NoError(t, err)

	for i, name := range Columns {
		switch name {
		case ColAmount:
			assert.Equal(t, 5.0, vec[i])
		case ColFullName:
			assert.Equal(t, 7.0, vec[i])
		default:
			assert.Zero(t, vec[i], name)
		}
	}
}

func TestAlign_Policies(t *testing.T) {
	_, err := NewAligner(AlignerOptions{Missing: MissingReject}).Align(Partial{ColAmount: 1})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)

	_, err = NewAligner(AlignerOptions{Strict: true}).Align(Partial{"unexpected": 1})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)

	vec, err := NewAligner(AlignerOptions{
		Missing: MissingMean,
		Means:   map[string]float64{ColTimeDiffPrev: 42},
	}).Align(Partial{})
	require.NoError(t, err)
	idx, _ := ColumnIndex(ColTimeDiffPrev)
	assert.Equal(t, 42.0, vec[idx])
}

func TestParseMissingPolicy(t *testing.T) {
	for raw, want := range map[string]MissingPolicy{"": MissingZero, "zero": MissingZero, "Mean": MissingMean, "reject": MissingReject} {
		got, err := ParseMissingPolicy(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseMissingPolicy("median")
	assert.Error(t, err)
}

func TestNormalizer_RoundTrip(t *testing.T) {
	scaler := identityScaler()
	for i, name := range Columns {
		scaler[name] = Scale{Mean: float64(i) * 3.5, Std: float64(i%4) * 0.75}
	}
	n, err := NewNormalizer(scaler)
	require.NoError(t, err)

	var x Vector
	for i := range x {
		x[i] = float64(i*i) - 17.25
	}

	z := n.Normalize(x)
	back := n.Denormalize(z)
	for i := range x {
		assert.InDelta(t, x[i], back[i], 1e-9, Columns[i])
		if scaler[Columns[i]].Std == 0 {
			assert.Equal(t, x[i], z[i], "std=0 column %s must pass through", Columns[i])
		}
	}
}

func TestNewNormalizer_MissingColumn(t *testing.T) {
	scaler := identityScaler()
	delete(scaler, ColFullName)
	_, err := NewNormalizer(scaler)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestPipeline_EndToEndEmptyContext(t *testing.T) {
	norm, err := NewNormalizer(identityScaler())
	require.NoError(t, err)
	p := NewPipeline(
		NewDeriver(DefaultDeriverOptions()),
		NewEncoder(map[string]int{"AnnLee": 3}),
		NewAligner(AlignerOptions{}),
		norm,
	)

	tx := mustTx(t, 1234, "2023-01-01 00:00:00", "X", domain.CategoryHome, "50.00", "T1")
	res, err := p.Build(tx, history.Empty())
	require.NoError(t, err)

	got := res.Raw.Map()
	require.Len(t, got, Width)
	assert.Zero(t, got[ColTimeDiffPrev])
	assert.Zero(t, got[ColAmountDiffCard])
	assert.Zero(t, got[ColAmountDiffCat])
	assert.Zero(t, got[ColAmountDiffMer])
	assert.Zero(t, got[ColTransactionsLastHour])
	assert.Equal(t, 3.0, got[ColFullName])
	for _, c := range domain.Categories {
		want := 0.0
		if c == domain.CategoryHome {
			want = 1
		}
		assert.Equal(t, want, got[CategoryColumn(c)], fmt.Sprintf("category %s", c))
	}
	assert.Equal(t, res.Raw, res.Normalized)
}
