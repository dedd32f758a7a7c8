// Package jsonl implements the ability to read and write blocks to a single
// append only file holding one json encoded block per line.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
)

// maxLineSize bounds the size of a single encoded block.
const maxLineSize = 64 * 1024 * 1024

// JSONL manages reading and writing of blocks to a json lines file. This
// implements the database.Storage interface.
type JSONL struct {
	mu     sync.RWMutex
	dbPath string
	dbFile *os.File
	count  uint64
}

// New provides access to blockchain storage held in the specified file. The
// file is created when it does not exist.
func New(dbPath string) (*JSONL, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	// Open the blockchain database file with append.
	dbFile, err := os.OpenFile(dbPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	strg := JSONL{
		dbPath: dbPath,
		dbFile: dbFile,
	}

	// Count the existing lines so out of order writes can be refused.
	err = strg.scan(func(database.Block) bool {
		strg.count++
		return true
	})
	if err != nil {
		dbFile.Close()
		return nil, err
	}

	return &strg, nil
}

// Close cleanly releases the storage area.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.dbFile.Close()
}

// Reset creates a new storage area for the blockchain to start new.
func (j *JSONL) Reset() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	// Close and remove the current file.
	j.dbFile.Close()
	if err := os.Remove(j.dbPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// Open a new blockchain database file with create.
	dbFile, err := os.OpenFile(j.dbPath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0600)
	if err != nil {
		return err
	}

	j.dbFile = dbFile
	j.count = 0

	return nil
}

// Write adds a new block to the end of the file.
func (j *JSONL) Write(block database.Block) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if block.Header.Index != j.count {
		return fmt.Errorf("block is out of order, got %d, exp %d", block.Header.Index, j.count)
	}

	// Marshal the block for writing to disk.
	data, err := json.Marshal(block)
	if err != nil {
		return err
	}

	// Write the new block to the chain on disk.
	if _, err := j.dbFile.Write(append(data, '\n')); err != nil {
		return err
	}

	if err := j.dbFile.Sync(); err != nil {
		return err
	}

	j.count++

	return nil
}

// GetBlock scans the file to locate and return the specified block by index.
func (j *JSONL) GetBlock(num uint64) (database.Block, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if num >= j.count {
		return database.Block{}, database.ErrBlockNotFound
	}

	var found database.Block
	var i uint64
	err := j.scan(func(block database.Block) bool {
		if i == num {
			found = block
			return false
		}
		i++
		return true
	})
	if err != nil {
		return database.Block{}, err
	}

	return found, nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block. The blocks are read when the iterator is constructed.
func (j *JSONL) ForEach() database.Iterator {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var blocks []database.Block
	err := j.scan(func(block database.Block) bool {
		blocks = append(blocks, block)
		return true
	})

	return &jsonlIterator{blocks: blocks, err: err}
}

// scan decodes every line of the file in order until fn returns false.
func (j *JSONL) scan(fn func(block database.Block) bool) error {
	f, err := os.Open(j.dbPath)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var line int
	for scanner.Scan() {
		var block database.Block
		if err := json.Unmarshal(scanner.Bytes(), &block); err != nil {
			return fmt.Errorf("decoding line %d: %w", line, err)
		}
		line++

		if !fn(block) {
			return nil
		}
	}

	return scanner.Err()
}

// =============================================================================

// jsonlIterator walks the blocks read from the file. A read failure is
// reported by the first call to Next.
type jsonlIterator struct {
	blocks  []database.Block
	err     error
	current int
	eoc     bool
}

// Next retrieves the next block.
func (ji *jsonlIterator) Next() (database.Block, error) {
	if ji.err != nil {
		err := ji.err
		ji.err = nil
		ji.blocks = nil
		return database.Block{}, err
	}

	if ji.eoc || ji.current >= len(ji.blocks) {
		ji.eoc = true
		return database.Block{}, database.ErrEndOfChain
	}

	block := ji.blocks[ji.current]
	ji.current++

	return block, nil
}

// Done returns the end of chain value.
func (ji *jsonlIterator) Done() bool {
	return ji.eoc
}
