package generator

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fraudscore/internal/history"
)

func smallConfig() Config {
	return Config{
		NumCards:        5,
		NumMerchants:    3,
		NumTransactions: 200,
		Start:           time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Span:            48 * time.Hour,
		BurstChance:     0.5,
		Seed:            7,
	}
}

func TestGenerate_ProducesValidOrderedTransactions(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Transactions, 200)

	refs := make(map[string]struct{})
	cards := make(map[int64]struct{})
	for i, raw := range ds.Transactions {
		tx, err := raw.Parse()
		require.NoError(t, err, "row %d", i)
		cards[tx.CardNumber] = struct{}{}
		refs[tx.TransNum] = struct{}{}
		if i > 0 {
			assert.LessOrEqual(t, ds.Transactions[i-1].Time, raw.Time)
		}
	}
	assert.Len(t, refs, 200)
	assert.LessOrEqual(t, len(cards), 5)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(smallConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteDataset_LoadsBack(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteDataset(ds, dir))

	fromJSON, err := history.LoadFile(filepath.Join(dir, "transactions.json"))
	require.NoError(t, err)
	fromCSV, err := history.LoadFile(filepath.Join(dir, "transactions.csv"))
	require.NoError(t, err)

	require.Len(t, fromJSON, len(ds.Transactions))
	require.Len(t, fromCSV, len(ds.Transactions))
	for i := range fromJSON {
		assert.Equal(t, fromJSON[i].TransNum, fromCSV[i].TransNum)
		assert.True(t, fromJSON[i].Amount.Equal(fromCSV[i].Amount))
		assert.True(t, fromJSON[i].Time.Equal(fromCSV[i].Time))
	}
}
