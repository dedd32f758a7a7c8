package jsonl_test

import (
	"path/filepath"
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/jsonl"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/storagetest"
)

func Test_JSONL(t *testing.T) {
	strg, err := jsonl.New(filepath.Join(t.TempDir(), "blocks.db"))
	if err != nil {
		t.Fatalf("unable to construct jsonl storage: %v", err)
	}
	defer strg.Close()

	storagetest.Exercise(t, strg)
}

func Test_JSONLReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.db")

	strg, err := jsonl.New(path)
	if err != nil {
		t.Fatalf("unable to construct jsonl storage: %v", err)
	}

	chain := storagetest.Chain(t, 3)
	for _, block := range chain[:2] {
		if err := strg.Write(block); err != nil {
			t.Fatalf("unable to write: %v", err)
		}
	}
	strg.Close()

	strg, err = jsonl.New(path)
	if err != nil {
		t.Fatalf("unable to reopen jsonl storage: %v", err)
	}
	defer strg.Close()

	if err := strg.Write(chain[2]); err != nil {
		t.Fatalf("expected the next block to be accepted after reopen: %v", err)
	}

	blocks, err := database.ReadAllBlocks(strg, nil)
	if err != nil {
		t.Fatalf("unable to read chain: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
}
