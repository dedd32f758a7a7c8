// Package chain is the core API for the blockchain and implements all the
// business rules and processing: genesis creation, transaction submission,
// mining and lookups.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/mempool"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/memory"
)

// Set of error variables for chain operations.
var (
	ErrRejected        = errors.New("transaction rejected")
	ErrNotVerified     = errors.New("transaction not verified")
	ErrInvalidTxType   = errors.New("only transfer transactions can be submitted")
	ErrTxConfirmed     = errors.New("transaction is already confirmed")
	ErrHashMismatch    = errors.New("transaction hash does not match its content")
	ErrInvalidReward   = errors.New("reward must be a finite number")
	ErrNotFound        = errors.New("transaction not found")
	ErrBlockOutOfRange = errors.New("block range is out of bounds")
	ErrGenesisUnsolved = errors.New("genesis difficulty can never be solved")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the chain.
type EventHandler func(v string, args ...any)

// Verifier checks the signature provided with a submitted transaction.
type Verifier func(tx database.Transaction, sender string, signature string) bool

// Params represents the mining parameters that can be changed at runtime.
// A change only affects blocks mined afterwards.
type Params struct {
	Difficulty uint    `json:"difficulty"`
	Reward     float64 `json:"reward"`
}

// Config represents the configuration required to start the chain.
type Config struct {
	Params         Params
	MinerAddress   string
	SelectStrategy string
	Storage        database.Storage
	Verifier       Verifier
	EvHandler      EventHandler
}

// Chain manages the blocks and the pending transactions. Every method is
// serialized behind a single lock, including the proof of work search.
type Chain struct {
	mu           sync.Mutex
	params       Params
	minerAddress string
	evHandler    EventHandler
	verifier     Verifier
	blocks       []database.Block
	mempool      *mempool.Mempool
	storage      database.Storage
}

// New constructs the chain. Existing blocks are loaded from storage and
// validated; when storage is empty the genesis block is mined and written.
func New(cfg Config) (*Chain, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if math.IsNaN(cfg.Params.Reward) || math.IsInf(cfg.Params.Reward, 0) {
		return nil, ErrInvalidReward
	}

	if cfg.Params.Difficulty > database.MaxDifficulty {
		return nil, fmt.Errorf("%w: difficulty[%d] max[%d]", ErrGenesisUnsolved, cfg.Params.Difficulty, database.MaxDifficulty)
	}

	// Use the no-op verifier of the transaction when one isn't provided.
	verifier := cfg.Verifier
	if verifier == nil {
		verifier = func(tx database.Transaction, sender string, signature string) bool {
			return tx.Verify(sender, signature)
		}
	}

	strg := cfg.Storage
	if strg == nil {
		mem, err := memory.New()
		if err != nil {
			return nil, err
		}
		strg = mem
	}

	// Construct a mempool with the specified select strategy.
	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = "lifo"
	}
	mp, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}

	// Load all existing blocks from storage into memory for processing.
	blocks, err := database.ReadAllBlocks(strg, database.EventHandler(ev))
	if err != nil {
		return nil, fmt.Errorf("loading blocks: %w", err)
	}

	c := Chain{
		params:       cfg.Params,
		minerAddress: cfg.MinerAddress,
		evHandler:    ev,
		verifier:     verifier,
		blocks:       blocks,
		mempool:      mp,
		storage:      strg,
	}

	if len(blocks) > 0 {
		ev("chain: New: loaded blocks[%d]", len(blocks))
		return &c, nil
	}

	if err := c.createGenesis(); err != nil {
		return nil, fmt.Errorf("creating genesis: %w", err)
	}

	return &c, nil
}

// Shutdown cleanly releases the storage.
func (c *Chain) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: shutdown: close storage")

	return c.storage.Close()
}

// createGenesis mines the first block holding the single genesis reward.
func (c *Chain) createGenesis() error {
	c.evHandler("chain: createGenesis: started: miner[%s]", c.minerAddress)
	defer c.evHandler("chain: createGenesis: completed")

	nonce, err := database.ProofOfWork(context.Background(), 0, c.params.Difficulty, database.EventHandler(c.evHandler))
	if err != nil {
		return err
	}

	now := uint64(time.Now().UTC().Unix())

	reward, err := database.NewReward(database.TxTypeGenesisReward, c.minerAddress, c.params.Reward, now)
	if err != nil {
		return err
	}

	if err := reward.SetStatus(database.TxStatusConfirmed); err != nil {
		return err
	}

	block, err := database.NewBlock(0, hasher.ZeroDigest, nonce, now, []database.Transaction{reward})
	if err != nil {
		return err
	}

	if err := c.storage.Write(block); err != nil {
		return err
	}

	c.blocks = append(c.blocks, block)

	return nil
}
