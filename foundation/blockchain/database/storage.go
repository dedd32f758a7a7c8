package database

import "fmt"

// Storage interface represents the behavior required to be implemented by any
// package providing support for reading and writing the blockchain. Write is
// called once for every block appended to the chain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks, starting with the
// genesis block.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// ReadAllBlocks loads every block from storage in index order. An empty
// storage returns no blocks. Each block is validated against its predecessor
// and any failure is returned.
func ReadAllBlocks(storage Storage, evHandler EventHandler) ([]Block, error) {
	var blocks []Block

	iter := storage.ForEach()
	for {
		block, err := iter.Next()
		if iter.Done() {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading block %d: %w", len(blocks), err)
		}

		var previous *Block
		if len(blocks) > 0 {
			previous = &blocks[len(blocks)-1]
		}

		if err := block.ValidateBlock(previous, evHandler); err != nil {
			return nil, fmt.Errorf("validating block %d: %w", len(blocks), err)
		}

		blocks = append(blocks, block)
	}

	return blocks, nil
}

