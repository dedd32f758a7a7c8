// Package storage selects a block storage implementation by name.
package storage

import (
	"fmt"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/disk"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/jsonl"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/leveldb"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/memory"
)

// Set of supported storage kinds.
const (
	KindMemory  = "memory"
	KindDisk    = "disk"
	KindJSONL   = "jsonl"
	KindLevelDB = "leveldb"
)

// Open constructs the storage of the specified kind at path. The path is
// ignored for memory storage.
func Open(kind string, path string) (database.Storage, error) {
	switch kind {
	case KindMemory:
		return memory.New()
	case KindDisk:
		return disk.New(path)
	case KindJSONL:
		return jsonl.New(path)
	case KindLevelDB:
		return leveldb.New(path)
	}

	return nil, fmt.Errorf("unknown storage kind %q", kind)
}
