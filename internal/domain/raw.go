package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RawTransaction is a transaction as submitted by the form or stored in a dataset file.
type RawTransaction struct {
	Time       string          `json:"time"`
	CardNumber int64           `json:"card_number"`
	Merchant   string          `json:"merchant"`
	Category   string          `json:"category"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Amount     decimal.Decimal `json:"amount"`
	TransNum   string          `json:"trans_num"`
}

// Parse validates the raw fields and builds an immutable Transaction.
func (r RawTransaction) Parse() (Transaction, error) {
	ts, err := ParseTime(r.Time)
	if err != nil {
		return Transaction{}, err
	}
	if r.CardNumber < 0 {
		return Transaction{}, fmt.Errorf("%w: %d", ErrInvalidCardNumber, r.CardNumber)
	}
	category, err := ParseCategory(r.Category)
	if err != nil {
		return Transaction{}, err
	}
	amount, err := ValidateAmount(r.Amount)
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		Time:       ts,
		CardNumber: r.CardNumber,
		Merchant:   r.Merchant,
		Category:   category,
		Amount:     amount,
		FirstName:  strings.TrimSpace(r.FirstName),
		LastName:   strings.TrimSpace(r.LastName),
		TransNum:   strings.TrimSpace(r.TransNum),
	}, nil
}

// Raw converts a Transaction back into its submitted form.
func (t Transaction) Raw() RawTransaction {
	return RawTransaction{
		Time:       t.Time.UTC().Format(TimeLayout),
		CardNumber: t.CardNumber,
		Merchant:   t.Merchant,
		Category:   string(t.Category),
		FirstName:  t.FirstName,
		LastName:   t.LastName,
		Amount:     t.Amount,
		TransNum:   t.TransNum,
	}
}
