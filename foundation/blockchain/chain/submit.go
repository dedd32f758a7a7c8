package chain

import (
	"fmt"
	"math"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
)

// SubmitTransaction verifies the transaction and places a copy in the pending
// pool with the Unconfirmed status. The accepted copy is returned. On
// rejection the pool is unchanged and the error wraps ErrRejected.
func (c *Chain) SubmitTransaction(tx database.Transaction, sender string, signature string) (database.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: SubmitTransaction: started: tx[%s]", tx.Hash)

	switch {
	case tx.Type != database.TxTypeTransfer:
		return database.Transaction{}, fmt.Errorf("%w: %w: %s", ErrRejected, ErrInvalidTxType, tx.Type)

	case tx.Status == database.TxStatusConfirmed:
		return database.Transaction{}, fmt.Errorf("%w: %w", ErrRejected, ErrTxConfirmed)

	case !tx.HashMatches():
		return database.Transaction{}, fmt.Errorf("%w: %w", ErrRejected, ErrHashMismatch)
	}

	if !c.verifier(tx, sender, signature) {
		c.evHandler("chain: SubmitTransaction: rejected: tx[%s]: not verified", tx.Hash)
		return database.Transaction{}, fmt.Errorf("%w: %w", ErrRejected, ErrNotVerified)
	}

	if err := tx.SetStatus(database.TxStatusUnconfirmed); err != nil {
		return database.Transaction{}, fmt.Errorf("%w: %w", ErrRejected, err)
	}

	n := c.mempool.Add(tx)

	c.evHandler("chain: SubmitTransaction: accepted: tx[%s]: pending[%d]", tx.Hash, n)

	return tx, nil
}

// SetDifficulty changes the difficulty used for blocks mined from now on.
func (c *Chain) SetDifficulty(difficulty uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: SetDifficulty: %d", difficulty)
	c.params.Difficulty = difficulty
}

// SetReward changes the reward paid for blocks mined from now on.
func (c *Chain) SetReward(reward float64) error {
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return ErrInvalidReward
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: SetReward: %v", reward)
	c.params.Reward = reward

	return nil
}
