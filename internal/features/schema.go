package features

import "github.com/vanshika/fraudscore/internal/domain"

// Column names shared with the training corpus.
const (
	ColCardNumber           = "Card Number"
	ColAmount               = "Amount"
	ColTimeSeconds          = "Time_Seconds"
	ColTimeDiffPrev         = "time_diff_prev"
	ColAmountDiffCard       = "amount_diff_card"
	ColAmountDiffCat        = "amount_diff_cat"
	ColAmountDiffMer        = "amount_diff_mer"
	ColTransactionsLastHour = "transactions_last_hour"
	ColFullName             = "fullName"

	categoryPrefix = "category_"
)

// Width is the number of columns the classifier consumes.
const Width = 23

// Columns is the classifier input order. It never changes at runtime.
var Columns = [Width]string{
	ColCardNumber,
	ColAmount,
	ColTimeSeconds,
	ColTimeDiffPrev,
	ColAmountDiffCard,
	ColAmountDiffCat,
	ColAmountDiffMer,
	ColTransactionsLastHour,
	"category_entertainment",
	"category_food_dining",
	"category_gas_transport",
	"category_grocery_net",
	"category_grocery_pos",
	"category_health_fitness",
	"category_home",
	"category_kids_pets",
	"category_misc_net",
	"category_misc_pos",
	"category_personal_care",
	"category_shopping_net",
	"category_shopping_pos",
	"category_travel",
	ColFullName,
}

var columnIndex = func() map[string]int {
	idx := make(map[string]int, Width)
	for i, name := range Columns {
		idx[name] = i
	}
	return idx
}()

// ColumnIndex returns the position of a column in Columns.
func ColumnIndex(name string) (int, bool) {
	i, ok := columnIndex[name]
	return i, ok
}

// CategoryColumn returns the one-hot column name for a category.
func CategoryColumn(c domain.Category) string {
	return categoryPrefix + string(c)
}

// Partial is a named, possibly incomplete set of feature values.
type Partial map[string]float64

// Merge returns the union of the partials; later values win on key collisions.
func Merge(parts ...Partial) Partial {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	out := make(Partial, size)
	for _, p := range parts {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}

// Vector is a complete feature row in Columns order.
type Vector [Width]float64

// Slice returns the vector as a fresh slice.
func (v Vector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}

// Map returns the vector keyed by column name.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, Width)
	for i, name := range Columns {
		out[name] = v[i]
	}
	return out
}
