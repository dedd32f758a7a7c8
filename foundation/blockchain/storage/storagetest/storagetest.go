// Package storagetest provides support for testing implementations of the
// database.Storage interface.
package storagetest

import (
	"errors"
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

// Success and failure markers.
const (
	Success = "\u2713"
	Failed  = "\u2717"
)

// Chain constructs a valid chain of n blocks, each holding one transfer and
// the reward.
func Chain(t *testing.T, n int) []database.Block {
	t.Helper()

	var blocks []database.Block
	prevHash := hasher.ZeroDigest

	for i := 0; i < n; i++ {
		var txs []database.Transaction

		rewardType := database.TxTypeGenesisReward
		if i > 0 {
			rewardType = database.TxTypeReward

			tx, err := database.NewTransaction(database.TransferData{Sender: "me", Receiver: "you", Amount: 22.4}, database.TxTypeTransfer, uint64(1000+i))
			if err != nil {
				t.Fatalf("creating transfer: %v", err)
			}
			txs = append(txs, tx)
		}

		reward, err := database.NewReward(rewardType, "test_miner", 12.1, uint64(1000+i))
		if err != nil {
			t.Fatalf("creating reward: %v", err)
		}
		txs = append(txs, reward)

		for j := range txs {
			if err := txs[j].SetStatus(database.TxStatusConfirmed); err != nil {
				t.Fatalf("confirming: %v", err)
			}
		}

		block, err := database.NewBlock(uint64(i), prevHash, uint64(i), uint64(1000+i), txs)
		if err != nil {
			t.Fatalf("creating block: %v", err)
		}

		blocks = append(blocks, block)
		prevHash = block.Header.MerkleRoot
	}

	return blocks
}

// Exercise runs the behavior every storage implementation must provide. The
// storage must be empty when provided.
func Exercise(t *testing.T, strg database.Storage) {
	t.Helper()

	t.Log("Given the need to read and write blocks to storage.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the storage is empty.", testID)
		{
			blocks, err := database.ReadAllBlocks(strg, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read an empty chain: %v", Failed, testID, err)
			}
			if len(blocks) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould get no blocks, got %d.", Failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould get no blocks.", Success, testID)

			if _, err := strg.GetBlock(0); !errors.Is(err, database.ErrBlockNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould get a not found error: %v", Failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get a not found error.", Success, testID)
		}

		chain := Chain(t, 4)

		testID++
		t.Logf("\tTest %d:\tWhen writing a chain of blocks.", testID)
		{
			for _, block := range chain {
				if err := strg.Write(block); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write block %d: %v", Failed, testID, block.Header.Index, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write the blocks.", Success, testID)

			if err := strg.Write(chain[1]); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould refuse an out of order block.", Failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse an out of order block.", Success, testID)

			blocks, err := database.ReadAllBlocks(strg, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the chain: %v", Failed, testID, err)
			}
			if len(blocks) != len(chain) {
				t.Fatalf("\t%s\tTest %d:\tShould get %d blocks, got %d.", Failed, testID, len(chain), len(blocks))
			}
			for i := range blocks {
				if blocks[i].Header != chain[i].Header || blocks[i].TxCount != chain[i].TxCount {
					t.Fatalf("\t%s\tTest %d:\tShould get block %d back unchanged.", Failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould get the blocks back in order.", Success, testID)

			block, err := strg.GetBlock(2)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to get block 2: %v", Failed, testID, err)
			}
			if block.Header != chain[2].Header {
				t.Fatalf("\t%s\tTest %d:\tShould get block 2 back unchanged.", Failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to get a block by index.", Success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen resetting the storage.", testID)
		{
			if err := strg.Reset(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to reset: %v", Failed, testID, err)
			}

			blocks, err := database.ReadAllBlocks(strg, nil)
			if err != nil || len(blocks) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould get an empty chain: %d %v", Failed, testID, len(blocks), err)
			}

			if err := strg.Write(chain[0]); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write genesis again: %v", Failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to start over.", Success, testID)
		}
	}
}
