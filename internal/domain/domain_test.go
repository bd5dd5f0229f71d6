package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory_AcceptsAllLiterals(t *testing.T) {
	require.Len(t, Categories, 14)
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestParseCategory_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "groceries", "HOME", "misc"} {
		_, err := ParseCategory(raw)
		assert.ErrorIs(t, err, ErrInvalidCategory, raw)
	}
}

func TestParseTime(t *testing.T) {
	ts, err := ParseTime("2023-01-01 00:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 30, 0, 0, time.UTC), ts)

	_, err = ParseTime("2023-01-01T00:30:00Z")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	_, err = ParseTime("2023-13-01 00:00:00")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("50.00")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(50)))

	_, err = ParseAmount("-1")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("1.005")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransactionFullName(t *testing.T) {
	tx := Transaction{FirstName: "Ann", LastName: "Lee"}
	assert.Equal(t, "AnnLee", tx.FullName())
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "Fraud detected", Fraud.String())
	assert.Equal(t, "No fraud detected", NotFraud.String())
	assert.Equal(t, 1, Fraud.Label())
}

func TestRawTransactionParse(t *testing.T) {
	raw := RawTransaction{
		Time:       "2023-01-01 00:00:00",
		CardNumber: 1234,
		Merchant:   "X",
		Category:   "home",
		FirstName:  "Ann",
		LastName:   "Lee",
		Amount:     decimal.RequireFromString("50.00"),
		TransNum:   "T1",
	}

	tx, err := raw.Parse()
	require.NoError(t, err)
	assert.Equal(t, CategoryHome, tx.Category)
	assert.Equal(t, int64(1234), tx.CardNumber)
	assert.Equal(t, 50.0, tx.AmountFloat())
	assert.Equal(t, raw.Time, tx.Raw().Time)

	bad := raw
	bad.CardNumber = -1
	_, err = bad.Parse()
	assert.ErrorIs(t, err, ErrInvalidCardNumber)

	bad = raw
	bad.Time = "yesterday"
	_, err = bad.Parse()
	assert.ErrorIs(t, err, ErrInvalidTimestamp)

	bad = raw
	bad.Category = "pets"
	_, err = bad.Parse()
	assert.ErrorIs(t, err, ErrInvalidCategory)
}
