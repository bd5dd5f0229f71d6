package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/fraudscore/internal/domain"
)

func txAt(card int64, ts string, merchant string, category domain.Category, amount string) domain.Transaction {
	parsed, err := domain.ParseTime(ts)
	if err != nil {
		panic(err)
	}
	return domain.Transaction{
		Time:       parsed,
		CardNumber: card,
		Merchant:   merchant,
		Category:   category,
		Amount:     decimal.RequireFromString(amount),
	}
}

func TestContext_GroupsAreTimeOrdered(t *testing.T) {
	ctx := NewContext([]domain.Transaction{
		txAt(1, "2023-01-01 02:00:00", "A", domain.CategoryHome, "3"),
		txAt(1, "2023-01-01 00:00:00", "B", domain.CategoryTravel, "1"),
		txAt(2, "2023-01-01 01:00:00", "A", domain.CategoryHome, "2"),
	})

	require.Equal(t, 3, ctx.Len())

	card := ctx.ByCard(1)
	require.Len(t, card, 2)
	assert.True(t, card[0].Time.Before(card[1].Time))

	assert.Len(t, ctx.ByMerchant("A"), 2)
	assert.Len(t, ctx.ByCategory(domain.CategoryTravel), 1)
	assert.Empty(t, ctx.ByCard(99))
	assert.Empty(t, ctx.ByMerchant("a"), "merchant grouping is exact")
}

func TestContext_NilIsEmpty(t *testing.T) {
	var ctx *Context
	assert.Equal(t, 0, ctx.Len())
	assert.Nil(t, ctx.ByCard(1))
	assert.Nil(t, ctx.All())
}

func TestStore_SnapshotIsStableAcrossAppend(t *testing.T) {
	store := NewStore([]domain.Transaction{txAt(1, "2023-01-01 00:00:00", "A", domain.CategoryHome, "1")})

	before := store.Snapshot()
	store.Append(txAt(1, "2023-01-01 00:10:00", "A", domain.CategoryHome, "2"))

	assert.Equal(t, 1, before.Len())
	assert.Equal(t, 2, store.Len())
}

func TestStore_ConcurrentReadersAndWriter(t *testing.T) {
	store := NewStore(nil)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			store.Append(domain.Transaction{CardNumber: 1, Time: start.Add(time.Duration(i) * time.Minute)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			snap := store.Snapshot()
			assert.Equal(t, snap.Len(), len(snap.ByCard(1)))
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, store.Len())
}

func TestReadCSV(t *testing.T) {
	data := strings.Join([]string{
		",trans_date_trans_time,cc_num,merchant,category,amt,first,last,trans_num,is_fraud",
		"0,2020-06-21 12:14:25,2291163933867244,fraud_Kirlin and Sons,personal_care,2.86,Jeff,Elliott,2da90c7d74bd46a0caf3777415b3ebd3,0",
		"1,2020-06-21 12:14:33,3573030041201292,fraud_Sporer-Keebler,personal_care,29.84,Joanne,Williams,324cc204407e99f51b0d6ca0055005e7,0",
	}, "\n")

	txs, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, int64(2291163933867244), txs[0].CardNumber)
	assert.Equal(t, "fraud_Kirlin and Sons", txs[0].Merchant)
	assert.Equal(t, domain.CategoryPersonalCare, txs[0].Category)
	assert.Equal(t, "JeffElliott", txs[0].FullName())
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("cc_num,merchant\n1,A\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadCSV_InvalidCategory(t *testing.T) {
	data := "trans_date_trans_time,cc_num,merchant,category,amt,first,last,trans_num\n" +
		"2020-06-21 12:14:25,1,A,gambling,1.00,A,B,T\n"
	_, err := ReadCSV(strings.NewReader(data))
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestLoadFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	raws := []domain.RawTransaction{{
		Time:       "2023-01-01 00:00:00",
		CardNumber: 7,
		Merchant:   "M",
		Category:   "travel",
		FirstName:  "Ann",
		LastName:   "Lee",
		Amount:     decimal.RequireFromString("12.50"),
		TransNum:   "T1",
	}}
	body, err := json.Marshal(raws)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	txs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.CategoryTravel, txs[0].Category)

	_, err = LoadFile(filepath.Join(dir, "history.xlsx"))
	assert.Error(t, err)
}

func TestStore_AppendSkipsKnownReferences(t *testing.T) {
	first := txAt(1, "2023-01-01 00:00:00", "A", domain.CategoryHome, "1")
	first.TransNum = "R1"
	store := NewStore([]domain.Transaction{first})
	require.True(t, store.Snapshot().Has("R1"))

	second := txAt(1, "2023-01-01 00:10:00", "A", domain.CategoryHome, "2")
	second.TransNum = "R2"
	anonymous := txAt(2, "2023-01-01 00:20:00", "B", domain.CategoryHome, "3")

	added := store.Append(first, second, second, anonymous)
	assert.Equal(t, 2, added)
	assert.Equal(t, 3, store.Len())
	assert.True(t, store.Snapshot().Has("R2"))
	assert.False(t, store.Snapshot().Has(""))

	assert.Zero(t, store.Append(first))
}
