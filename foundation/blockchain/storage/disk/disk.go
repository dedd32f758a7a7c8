// Package disk implements the ability to read and write blocks to disk
// with each block stored in its own json file.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
)

// Disk represents the serialization implementation for reading and storing
// blocks in their own separate files on disk. This implements the
// database.Storage interface.
type Disk struct {
	mu     sync.RWMutex
	dbPath string
}

// New constructs a Disk value for use.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new block and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write takes the specified database block and stores it on disk in a
// file labeled with the block index.
func (d *Disk) Write(block database.Block) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Marshal the block for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return err
	}

	// Create a new file for this block and name it based on the block index.
	f, err := os.OpenFile(d.getPath(block.Header.Index), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating block file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	return f.Sync()
}

// GetBlock searches the blockchain on disk to locate and return the
// contents of the specified block by index.
func (d *Disk) GetBlock(num uint64) (database.Block, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, err := os.Open(d.getPath(num))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.Block{}, fmt.Errorf("%w: %w", database.ErrBlockNotFound, err)
		}
		return database.Block{}, err
	}
	defer f.Close()

	var block database.Block
	if err := json.NewDecoder(f).Decode(&block); err != nil {
		return database.Block{}, fmt.Errorf("decoding block %d: %w", num, err)
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (d *Disk) ForEach() database.Iterator {
	return &diskIterator{disk: d}
}

// Reset will clear out the blockchain on disk.
func (d *Disk) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(d.dbPath, "*.json"))
	if err != nil {
		return err
	}

	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return err
		}
	}

	return nil
}

// blockFiles returns the number of block files in the folder.
func (d *Disk) blockFiles() (uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(d.dbPath, "*.json"))
	if err != nil {
		return 0, err
	}

	return uint64(len(matches)), nil
}

// getPath forms the path to the specified block.
func (d *Disk) getPath(blockNum uint64) string {
	name := strconv.FormatUint(blockNum, 10)
	return filepath.Join(d.dbPath, name+".json")
}

// =============================================================================

// diskIterator represents the iteration implementation for walking
// through and reading blocks on disk. This implements the database
// Iterator interface.
type diskIterator struct {
	disk    *Disk  // Access to the disk storage API.
	current uint64 // Current block index being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from disk.
func (di *diskIterator) Next() (database.Block, error) {
	if di.eoc {
		return database.Block{}, database.ErrEndOfChain
	}

	block, err := di.disk.GetBlock(di.current)
	if err != nil {
		if !errors.Is(err, database.ErrBlockNotFound) {
			return database.Block{}, err
		}

		// The chain only ends here if no later block files exist.
		files, ferr := di.disk.blockFiles()
		if ferr != nil {
			return database.Block{}, ferr
		}
		if files != di.current {
			return database.Block{}, fmt.Errorf("%w: block %d missing, %d block files", database.ErrCorruptStorage, di.current, files)
		}

		di.eoc = true
		return database.Block{}, err
	}

	di.current++

	return block, nil
}

// Done returns the end of chain value.
func (di *diskIterator) Done() bool {
	return di.eoc
}
