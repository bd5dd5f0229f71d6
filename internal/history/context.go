package history

import (
	"sort"

	"github.com/vanshika/fraudscore/internal/domain"
)

// Context is an immutable, time-ordered view over previously observed transactions.
// Grouping keys use exact equality.
type Context struct {
	txs        []domain.Transaction
	byCard     map[int64][]int
	byCategory map[domain.Category][]int
	byMerchant map[string][]int
	refs       map[string]struct{}
}

// NewContext copies txs, orders them by time and indexes them by card, category and merchant.
func NewContext(txs []domain.Transaction) *Context {
	ordered := make([]domain.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time.Before(ordered[j].Time)
	})

	c := &Context{
		txs:        ordered,
		byCard:     make(map[int64][]int),
		byCategory: make(map[domain.Category][]int),
		byMerchant: make(map[string][]int),
		refs:       make(map[string]struct{}),
	}
	for i, tx := range ordered {
		c.byCard[tx.CardNumber] = append(c.byCard[tx.CardNumber], i)
		c.byCategory[tx.Category] = append(c.byCategory[tx.Category], i)
		c.byMerchant[tx.Merchant] = append(c.byMerchant[tx.Merchant], i)
		if tx.TransNum != "" {
			c.refs[tx.TransNum] = struct{}{}
		}
	}
	return c
}

// Empty returns a context with no history.
func Empty() *Context {
	return NewContext(nil)
}

// Len reports the number of transactions in the context.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.txs)
}

// Has reports whether a transaction with this reference is present.
func (c *Context) Has(transNum string) bool {
	if c == nil || transNum == "" {
		return false
	}
	_, ok := c.refs[transNum]
	return ok
}

// All returns a copy of every transaction in time order.
func (c *Context) All() []domain.Transaction {
	if c == nil {
		return nil
	}
	out := make([]domain.Transaction, len(c.txs))
	copy(out, c.txs)
	return out
}

// ByCard returns the card's transactions in time order.
func (c *Context) ByCard(card int64) []domain.Transaction {
	if c == nil {
		return nil
	}
	return c.pick(c.byCard[card])
}

// ByCategory returns the category's transactions in time order.
func (c *Context) ByCategory(category domain.Category) []domain.Transaction {
	if c == nil {
		return nil
	}
	return c.pick(c.byCategory[category])
}

// ByMerchant returns the merchant's transactions in time order.
func (c *Context) ByMerchant(merchant string) []domain.Transaction {
	if c == nil {
		return nil
	}
	return c.pick(c.byMerchant[merchant])
}

func (c *Context) pick(idx []int) []domain.Transaction {
	if len(idx) == 0 {
		return nil
	}
	out := make([]domain.Transaction, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.txs[i])
	}
	return out
}
