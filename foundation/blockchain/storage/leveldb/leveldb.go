// Package leveldb implements the ability to read and write blocks to an
// embedded leveldb key value store.
package leveldb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// blockPrefix namespaces the block keys. The block index follows as a big
// endian integer so keys sort in chain order.
var blockPrefix = []byte("block:")

// LevelDB represents the serialization implementation for reading and storing
// blocks in a leveldb database. This implements the database.Storage
// interface.
type LevelDB struct {
	mu    sync.RWMutex
	db    *leveldb.DB
	count uint64
}

// New opens or creates the leveldb database at the specified path.
func New(dbPath string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, fmt.Errorf("opening leveldb: %w", err)
	}

	count, err := lastKeyCount(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LevelDB{db: db, count: count}, nil
}

// Close releases the database.
func (l *LevelDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.Close()
}

// Write stores the block under its index.
func (l *LevelDB) Write(block database.Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if block.Header.Index != l.count {
		return fmt.Errorf("block is out of order, got %d, exp %d", block.Header.Index, l.count)
	}

	data, err := json.Marshal(block)
	if err != nil {
		return err
	}

	if err := l.db.Put(blockKey(block.Header.Index), data, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("writing block %d: %w", block.Header.Index, err)
	}

	l.count++

	return nil
}

// GetBlock returns the block stored under the specified index.
func (l *LevelDB) GetBlock(num uint64) (database.Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	data, err := l.db.Get(blockKey(num), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return database.Block{}, database.ErrBlockNotFound
		}
		return database.Block{}, fmt.Errorf("reading block %d: %w", num, err)
	}

	var block database.Block
	if err := json.Unmarshal(data, &block); err != nil {
		return database.Block{}, fmt.Errorf("decoding block %d: %w", num, err)
	}

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (l *LevelDB) ForEach() database.Iterator {
	return &levelIterator{storage: l}
}

// blockCount returns the number of blocks implied by the last key.
func (l *LevelDB) blockCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.count
}

// Reset deletes every block from the database.
func (l *LevelDB) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	iter := l.db.NewIterator(util.BytesPrefix(blockPrefix), nil)
	defer iter.Release()

	var batch leveldb.Batch
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return err
	}

	if err := l.db.Write(&batch, &opt.WriteOptions{Sync: true}); err != nil {
		return err
	}

	l.count = 0

	return nil
}

// =============================================================================

// levelIterator represents the iteration implementation for walking
// through the blocks in leveldb. This implements the database Iterator
// interface.
type levelIterator struct {
	storage *LevelDB
	current uint64
	eoc     bool
}

// Next retrieves the next block from the database.
func (li *levelIterator) Next() (database.Block, error) {
	if li.eoc {
		return database.Block{}, database.ErrEndOfChain
	}

	block, err := li.storage.GetBlock(li.current)
	if err != nil {
		if !errors.Is(err, database.ErrBlockNotFound) {
			return database.Block{}, err
		}

		// The count comes from the last key, so a hole leaves it ahead.
		if count := li.storage.blockCount(); count != li.current {
			return database.Block{}, fmt.Errorf("%w: block %d missing, last key implies %d blocks", database.ErrCorruptStorage, li.current, count)
		}

		li.eoc = true
		return database.Block{}, err
	}

	li.current++

	return block, nil
}

// Done returns the end of chain value.
func (li *levelIterator) Done() bool {
	return li.eoc
}

// =============================================================================

// blockKey forms the key for the specified block index.
func blockKey(index uint64) []byte {
	key := make([]byte, len(blockPrefix)+8)
	copy(key, blockPrefix)
	binary.BigEndian.PutUint64(key[len(blockPrefix):], index)
	return key
}

// lastKeyCount returns the number of blocks held, found from the last key.
func lastKeyCount(db *leveldb.DB) (uint64, error) {
	iter := db.NewIterator(util.BytesPrefix(blockPrefix), nil)
	defer iter.Release()

	if !iter.Last() {
		return 0, iter.Error()
	}

	key := iter.Key()
	if len(key) != len(blockPrefix)+8 {
		return 0, fmt.Errorf("malformed block key %x", key)
	}

	return binary.BigEndian.Uint64(key[len(blockPrefix):]) + 1, nil
}
