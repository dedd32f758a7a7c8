package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage/storagetest"
)

func TestOpen(t *testing.T) {
	kinds := []string{storage.KindMemory, storage.KindDisk, storage.KindJSONL, storage.KindLevelDB}

	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			strg, err := storage.Open(kind, filepath.Join(t.TempDir(), "blocks"))
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer strg.Close()

			storagetest.Exercise(t, strg)
		})
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := storage.Open("tape", t.TempDir()); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}
