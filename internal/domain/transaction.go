package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the wall-clock format accepted from the transaction form.
const TimeLayout = "2006-01-02 15:04:05"

// Transaction models a single card transaction, either observed history or a scoring candidate.
type Transaction struct {
	Time       time.Time
	CardNumber int64
	Merchant   string
	Category   Category
	Amount     decimal.Decimal
	FirstName  string
	LastName   string
	TransNum   string
}

// FullName joins the payer names the same way the training corpus did: no separator.
func (t Transaction) FullName() string {
	return t.FirstName + t.LastName
}

// AmountFloat returns the amount as used by the numeric feature pipeline.
func (t Transaction) AmountFloat() float64 {
	return t.Amount.InexactFloat64()
}

// ParseTime parses a form timestamp as UTC.
func ParseTime(value string) (time.Time, error) {
	ts, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
	}
	return ts, nil
}

// ParseAmount parses a non-negative amount with at most two decimal places.
func ParseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	return ValidateAmount(amount)
}

// ValidateAmount enforces the sign and 0.01 step constraints on an amount.
func ValidateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Round(2)) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, amount)
	}
	return amount, nil
}
