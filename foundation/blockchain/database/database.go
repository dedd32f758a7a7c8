// Package database handles all the lower level support for maintaining the
// blockchain data model: transactions, blocks, the proof of work puzzle and
// the storage contract used to persist blocks.
package database

import "errors"

// Set of error variables for the data model.
var (
	ErrStatusRegression = errors.New("transaction status cannot move backward")
	ErrBlockNotFound    = errors.New("block does not exist")
	ErrEndOfChain       = errors.New("end of chain")
	ErrCorruptStorage   = errors.New("storage holds blocks past a missing block")
)

// RootSender is the sender recorded on reward transactions.
const RootSender = "Root"

// EventHandler defines a function that is called when events occur in the
// processing of the data model.
type EventHandler func(v string, args ...any)
