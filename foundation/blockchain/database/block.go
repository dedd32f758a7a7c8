package database

import (
	"fmt"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/merkle"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Index        uint64        `json:"index"`         // Position of the block in the chain.
	PreviousHash hasher.Digest `json:"previous_hash"` // Merkle root of the previous block.
	MerkleRoot   hasher.Digest `json:"merkle_root"`   // Root of the merkle tree over the transaction hashes.
	TimeStamp    uint64        `json:"timestamp"`     // Time the block was mined.
	Nonce        uint64        `json:"nonce"`         // Value identified to solve the proof of work.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header       BlockHeader   `json:"header"`
	TxCount      int           `json:"tx_count"`
	Transactions []Transaction `json:"transactions"`
}

// NewBlock constructs a block over the transactions, computing the merkle
// root from their hashes in order.
func NewBlock(index uint64, previousHash hasher.Digest, nonce uint64, timestamp uint64, txs []Transaction) (Block, error) {
	root, err := MerkleRoot(txs)
	if err != nil {
		return Block{}, err
	}

	trans := make([]Transaction, len(txs))
	copy(trans, txs)

	b := Block{
		Header: BlockHeader{
			Index:        index,
			PreviousHash: previousHash,
			MerkleRoot:   root,
			TimeStamp:    timestamp,
			Nonce:        nonce,
		},
		TxCount:      len(trans),
		Transactions: trans,
	}

	return b, nil
}

// MerkleRoot aggregates the transaction hashes into a single root digest.
func MerkleRoot(txs []Transaction) (hasher.Digest, error) {
	root, err := merkle.Root(txs)
	if err != nil {
		return hasher.ZeroDigest, fmt.Errorf("merkle root: %w", err)
	}

	return root, nil
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	trans := make([]Transaction, len(b.Transactions))
	copy(trans, b.Transactions)
	b.Transactions = trans

	return b
}

// Tree constructs the merkle tree for the block's transactions.
func (b Block) Tree() (*merkle.Tree[Transaction], error) {
	return merkle.NewTree(b.Transactions)
}

// FindTransaction returns the transaction with the specified hash.
func (b Block) FindTransaction(hash hasher.Digest) (Transaction, bool) {
	for _, tx := range b.Transactions {
		if tx.Hash == hash {
			return tx, true
		}
	}

	return Transaction{}, false
}

// ValidateBlock checks the block is well formed and, when a previous block is
// provided, correctly linked to it. A nil previous block means the block must
// be the genesis block.
func (b Block) ValidateBlock(previous *Block, evHandler EventHandler) error {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: block index is the next index", b.Header.Index)

	var expIndex uint64
	expPrevHash := hasher.ZeroDigest
	rewardType := TxTypeGenesisReward
	if previous != nil {
		expIndex = previous.Header.Index + 1
		expPrevHash = previous.Header.MerkleRoot
		rewardType = TxTypeReward
	}

	if b.Header.Index != expIndex {
		return fmt.Errorf("this block is not the next index, got %d, exp %d", b.Header.Index, expIndex)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: previous hash does match previous block", b.Header.Index)

	if b.Header.PreviousHash != expPrevHash {
		return fmt.Errorf("previous block hash doesn't match, got %s, exp %s", b.Header.PreviousHash, expPrevHash)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: transaction count", b.Header.Index)

	if b.TxCount != len(b.Transactions) {
		return fmt.Errorf("transaction count mismatch, got %d, exp %d", len(b.Transactions), b.TxCount)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: transactions are confirmed with one reward", b.Header.Index)

	var rewards int
	for _, tx := range b.Transactions {
		if tx.Status != TxStatusConfirmed {
			return fmt.Errorf("transaction %s is not confirmed: %s", tx.Hash, tx.Status)
		}

		if !tx.HashMatches() {
			return fmt.Errorf("transaction %s hash doesn't match its content", tx.Hash)
		}

		switch tx.Type {
		case rewardType:
			rewards++
		case TxTypeTransfer:
		default:
			return fmt.Errorf("transaction %s has unexpected type %s", tx.Hash, tx.Type)
		}
	}

	if rewards != 1 {
		return fmt.Errorf("block must hold exactly one %s transaction, got %d", rewardType, rewards)
	}

	ev("database: ValidateBlock: validate: blk[%d]: check: merkle root does match transactions", b.Header.Index)

	root, err := MerkleRoot(b.Transactions)
	if err != nil {
		return err
	}

	if b.Header.MerkleRoot != root {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", root, b.Header.MerkleRoot)
	}

	return nil
}
