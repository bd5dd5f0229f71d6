package domain

import (
	"fmt"
	"strings"
)

// Category is one of the fixed merchant categories known to the classifier.
type Category string

const (
	CategoryMiscNet       Category = "misc_net"
	CategoryGroceryPOS    Category = "grocery_pos"
	CategoryEntertainment Category = "entertainment"
	CategoryGasTransport  Category = "gas_transport"
	CategoryMiscPOS       Category = "misc_pos"
	CategoryGroceryNet    Category = "grocery_net"
	CategoryShoppingNet   Category = "shopping_net"
	CategoryShoppingPOS   Category = "shopping_pos"
	CategoryFoodDining    Category = "food_dining"
	CategoryPersonalCare  Category = "personal_care"
	CategoryHealthFitness Category = "health_fitness"
	CategoryTravel        Category = "travel"
	CategoryKidsPets      Category = "kids_pets"
	CategoryHome          Category = "home"
)

// Categories lists every accepted category in form order.
var Categories = []Category{
	CategoryMiscNet,
	CategoryGroceryPOS,
	CategoryEntertainment,
	CategoryGasTransport,
	CategoryMiscPOS,
	CategoryGroceryNet,
	CategoryShoppingNet,
	CategoryShoppingPOS,
	CategoryFoodDining,
	CategoryPersonalCare,
	CategoryHealthFitness,
	CategoryTravel,
	CategoryKidsPets,
	CategoryHome,
}

var categorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(Categories))
	for _, c := range Categories {
		set[c] = struct{}{}
	}
	return set
}()

// ParseCategory validates a raw category literal. Matching is exact apart from surrounding whitespace.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.TrimSpace(value))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, value)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categorySet[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}
