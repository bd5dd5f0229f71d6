package history

import (
	"sync"

	"github.com/vanshika/fraudscore/internal/domain"
)

// Store holds the process-wide historical context.
//
// Readers take an immutable snapshot under a read lock. Append swaps in a new
// snapshot under the write lock, so an in-flight scoring call never observes a
// partially applied write.
type Store struct {
	mu      sync.RWMutex
	current *Context
}

// NewStore creates a store seeded with the provided transactions.
func NewStore(txs []domain.Transaction) *Store {
	return &Store{current: NewContext(txs)}
}

// Snapshot returns the current read-only context.
func (s *Store) Snapshot() *Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Append records newly observed transactions and returns how many were added.
// Transactions whose reference is already present are skipped.
func (s *Store) Append(txs ...domain.Transaction) int {
	if len(txs) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]domain.Transaction, 0, s.current.Len()+len(txs))
	merged = append(merged, s.current.txs...)
	batch := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if tx.TransNum != "" {
			if _, dup := batch[tx.TransNum]; dup || s.current.Has(tx.TransNum) {
				continue
			}
			batch[tx.TransNum] = struct{}{}
		}
		merged = append(merged, tx)
	}
	added := len(merged) - s.current.Len()
	if added > 0 {
		s.current = NewContext(merged)
	}
	return added
}

// Len reports the number of stored transactions.
func (s *Store) Len() int {
	return s.Snapshot().Len()
}
