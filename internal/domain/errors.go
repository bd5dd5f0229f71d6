package domain

import "errors"

var (
	// ErrInvalidTimestamp indicates the time field is not in TimeLayout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrInvalidCategory indicates a category outside the fixed enumeration.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidAmount indicates a negative or over-precise amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidCardNumber indicates a negative card identifier.
	ErrInvalidCardNumber = errors.New("invalid card number")
	// ErrModelUnavailable indicates the classifier artifact could not be loaded.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrSchemaMismatch indicates a feature set that cannot be aligned to the classifier schema.
	ErrSchemaMismatch = errors.New("schema mismatch")
)
