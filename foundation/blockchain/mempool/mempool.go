// Package mempool maintains the pool of transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/mempool/selector"
)

// Mempool represents a cache of transactions kept in arrival order.
type Mempool struct {
	pool     []database.Transaction
	mu       sync.RWMutex
	selectFn selector.Func
}

// New constructs a new mempool using the default select strategy.
func New() *Mempool {
	mp, _ := NewWithStrategy(selector.StrategyLIFO)
	return mp
}

// NewWithStrategy constructs a new mempool with specified select strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the size of
// the pool. The same transaction may be pending more than once.
func (mp *Mempool) Add(tx database.Transaction) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Delete removes the first transaction with the specified hash from the pool.
func (mp *Mempool) Delete(hash hasher.Digest) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i := range mp.pool {
		if mp.pool[i].Hash == hash {
			mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
			return true
		}
	}

	return false
}

// Lookup returns the first transaction with the specified hash.
func (mp *Mempool) Lookup(hash hasher.Digest) (database.Transaction, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	for _, tx := range mp.pool {
		if tx.Hash == hash {
			return tx, true
		}
	}

	return database.Transaction{}, false
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns a copy of the pool in arrival order.
func (mp *Mempool) Copy() []database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Transaction, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// PickAll uses the configured select strategy to return every transaction
// in the order it should be placed into the next block.
func (mp *Mempool) PickAll() []database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.selectFn(mp.pool)
}
