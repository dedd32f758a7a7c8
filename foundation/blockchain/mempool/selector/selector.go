// Package selector provides the different orders in which pending
// transactions are drained into a block.
package selector

import (
	"fmt"
	"strings"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
)

// List of different select strategies.
const (
	StrategyLIFO = "lifo"
	StrategyFIFO = "fifo"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyLIFO: lifoSelect,
	StrategyFIFO: fifoSelect,
}

// Func defines a function that takes the pending transactions in arrival
// order and returns all of them in the order they are placed into a block.
// The provided slice must not be modified.
type Func func(transactions []database.Transaction) []database.Transaction

// Retrieve returns the specified select strategy function. Strategy names
// are not case sensitive.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strings.ToLower(strategy)]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// lifoSelect drains the most recently submitted transaction first.
func lifoSelect(transactions []database.Transaction) []database.Transaction {
	out := make([]database.Transaction, len(transactions))
	for i, tx := range transactions {
		out[len(transactions)-1-i] = tx
	}
	return out
}

// fifoSelect drains the transactions in the order they were submitted.
func fifoSelect(transactions []database.Transaction) []database.Transaction {
	out := make([]database.Transaction, len(transactions))
	copy(out, transactions)
	return out
}
