package chain

import (
	"context"
	"time"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
)

// MineNewBlock drains the pending transactions into a new block together with
// the miner's reward. When nothing is pending the latest block is returned and
// the chain is unchanged. An error means the chain and the pending pool are
// unchanged.
func (c *Chain) MineNewBlock(ctx context.Context) (database.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: MineNewBlock: MINING: check mempool count")

	latest := c.blocks[len(c.blocks)-1]

	// There is nothing to do when the pool is empty.
	if c.mempool.Count() == 0 {
		c.evHandler("chain: MineNewBlock: MINING: no transactions to mine")
		return latest.Clone(), nil
	}

	c.evHandler("chain: MineNewBlock: MINING: perform POW")

	// Solve the puzzle against the nonce of the latest block. This can be cancelled.
	nonce, err := database.ProofOfWork(ctx, latest.Header.Nonce, c.params.Difficulty, database.EventHandler(c.evHandler))
	if err != nil {
		return database.Block{}, err
	}

	c.evHandler("chain: MineNewBlock: MINING: build block")

	now := uint64(time.Now().UTC().Unix())

	reward, err := database.NewReward(database.TxTypeReward, c.minerAddress, c.params.Reward, now)
	if err != nil {
		return database.Block{}, err
	}

	// The pool keeps its own copies so a failure below leaves it untouched.
	trans := append(c.mempool.PickAll(), reward)
	for i := range trans {
		if err := trans[i].SetStatus(database.TxStatusConfirmed); err != nil {
			return database.Block{}, err
		}
		c.evHandler("chain: MineNewBlock: MINING: tx[%s]", trans[i])
	}

	block, err := database.NewBlock(latest.Header.Index+1, latest.Header.MerkleRoot, nonce, now, trans)
	if err != nil {
		return database.Block{}, err
	}

	c.evHandler("chain: MineNewBlock: MINING: write block[%d] to storage", block.Header.Index)

	// Write the new block to storage before the chain is updated.
	if err := c.storage.Write(block); err != nil {
		return database.Block{}, err
	}

	c.blocks = append(c.blocks, block)
	c.mempool.Truncate()

	c.evHandler("chain: MineNewBlock: MINING: SOLVED: blk[%d] root[%s] txs[%d]", block.Header.Index, block.Header.MerkleRoot, block.TxCount)

	return block.Clone(), nil
}
