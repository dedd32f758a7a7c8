// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"go.uber.org/zap"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

// Storage is the block storage the commands operate on.
type Storage = database.Storage

// Verify reads and validates every block, logging the result.
func Verify(log *zap.SugaredLogger, strg Storage) error {
	ev := func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	blocks, err := database.ReadAllBlocks(strg, ev)
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		log.Infow("verify", "status", "storage is empty")
		return nil
	}

	latest := blocks[len(blocks)-1]
	log.Infow("verify", "status", "chain is valid", "blocks", len(blocks), "latest", latest.Header.Index, "root", latest.Header.MerkleRoot)

	return nil
}

// Blocks writes every block as indented json.
func Blocks(w io.Writer, strg Storage) error {
	blocks, err := database.ReadAllBlocks(strg, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(blocks)
}

// Copy validates the chain in src and writes it to dst, which must be empty.
func Copy(log *zap.SugaredLogger, src Storage, dst Storage) error {
	if _, err := dst.GetBlock(0); !errors.Is(err, database.ErrBlockNotFound) {
		if err == nil {
			return errors.New("destination storage is not empty")
		}
		return err
	}

	blocks, err := database.ReadAllBlocks(src, nil)
	if err != nil {
		return err
	}

	for _, block := range blocks {
		if err := dst.Write(block); err != nil {
			return fmt.Errorf("writing block %d: %w", block.Header.Index, err)
		}
	}

	log.Infow("copy", "status", "complete", "blocks", len(blocks))

	return nil
}
