package chain

import (
	"fmt"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// Proof holds what is needed to show a mined transaction is part of a block.
type Proof struct {
	BlockIndex  uint64               `json:"block_index"`
	MerkleRoot  hasher.Digest        `json:"merkle_root"`
	Transaction database.Transaction `json:"transaction"`
	Hashes      []hasher.Digest      `json:"proof"`
	Order       []int64              `json:"proof_order"`
}

// =============================================================================

// QueryTransaction returns the transaction with the specified hash. The
// pending pool is searched first, then the blocks from the newest.
func (c *Chain) QueryTransaction(hash hasher.Digest) (database.Transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tx, exists := c.mempool.Lookup(hash); exists {
		return tx, true
	}

	for i := len(c.blocks) - 1; i >= 0; i-- {
		if tx, exists := c.blocks[i].FindTransaction(hash); exists {
			return tx, true
		}
	}

	return database.Transaction{}, false
}

// QueryProof returns the merkle inclusion proof for a mined transaction.
func (c *Chain) QueryProof(hash hasher.Digest) (Proof, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.blocks) - 1; i >= 0; i-- {
		block := c.blocks[i]

		tx, exists := block.FindTransaction(hash)
		if !exists {
			continue
		}

		tree, err := block.Tree()
		if err != nil {
			return Proof{}, err
		}

		hashes, order, err := tree.Proof(tx)
		if err != nil {
			return Proof{}, err
		}

		p := Proof{
			BlockIndex:  block.Header.Index,
			MerkleRoot:  block.Header.MerkleRoot,
			Transaction: tx,
			Hashes:      hashes,
			Order:       order,
		}

		return p, nil
	}

	return Proof{}, ErrNotFound
}

// QueryMempoolLength returns the current length of the pending pool.
func (c *Chain) QueryMempoolLength() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mempool.Count()
}

// QueryBlocksByNumber returns a copy of the blocks between from and to
// inclusive. QueryLatest can be used for either bound.
func (c *Chain) QueryBlocksByNumber(from uint64, to uint64) ([]database.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.blocks[len(c.blocks)-1].Header.Index
	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest {
		to = latest
	}

	if from > to || to > latest {
		return nil, fmt.Errorf("%w: from[%d] to[%d] latest[%d]", ErrBlockOutOfRange, from, to, latest)
	}

	out := make([]database.Block, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, c.blocks[i].Clone())
	}

	return out, nil
}

// =============================================================================

// RetrieveBlocks returns a copy of every block in the chain.
func (c *Chain) RetrieveBlocks() []database.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]database.Block, len(c.blocks))
	for i, block := range c.blocks {
		out[i] = block.Clone()
	}

	return out
}

// RetrievePending returns a copy of the pending transactions in arrival order.
func (c *Chain) RetrievePending() []database.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.mempool.Copy()
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (c *Chain) RetrieveLatestBlock() database.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.blocks[len(c.blocks)-1].Clone()
}

// RetrieveParams returns the current mining parameters.
func (c *Chain) RetrieveParams() Params {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.params
}

// Difficulty returns the current difficulty.
func (c *Chain) Difficulty() uint {
	return c.RetrieveParams().Difficulty
}

// Reward returns the current reward.
func (c *Chain) Reward() float64 {
	return c.RetrieveParams().Reward
}

// MinerAddress returns the address credited with rewards.
func (c *Chain) MinerAddress() string {
	return c.minerAddress
}
