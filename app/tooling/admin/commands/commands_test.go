package commands_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/subaquatic-pierre/nebula/app/tooling/admin/commands"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/memory"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/storagetest"
	"github.com/subaquatic-pierre/nebula/foundation/logger"
)

func filled(t *testing.T, n int) *memory.Memory {
	t.Helper()

	strg, err := memory.New()
	if err != nil {
		t.Fatalf("memory: %v", err)
	}

	for _, block := range storagetest.Chain(t, n) {
		if err := strg.Write(block); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	return strg
}

func TestVerify(t *testing.T) {
	if err := commands.Verify(logger.NewNop(), filled(t, 3)); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestBlocks(t *testing.T) {
	var buf bytes.Buffer
	if err := commands.Blocks(&buf, filled(t, 3)); err != nil {
		t.Fatalf("blocks: %v", err)
	}

	var blocks []database.Block
	if err := json.Unmarshal(buf.Bytes(), &blocks); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, exp 3", len(blocks))
	}
}

func TestCopy(t *testing.T) {
	src := filled(t, 3)

	dst, err := memory.New()
	if err != nil {
		t.Fatalf("memory: %v", err)
	}

	log := logger.NewNop()

	if err := commands.Copy(log, src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}

	blocks, err := database.ReadAllBlocks(dst, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, exp 3", len(blocks))
	}

	if err := commands.Copy(log, src, dst); err == nil {
		t.Fatal("expected copying into a non empty storage to fail")
	}
}
