package worker_test

import (
	"testing"
	"time"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/chain"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newChain(t *testing.T, difficulty uint) *chain.Chain {
	t.Helper()

	c, err := chain.New(chain.Config{
		Params:       chain.Params{Difficulty: difficulty, Reward: 12.1},
		MinerAddress: "test_miner",
	})
	if err != nil {
		t.Fatalf("unable to construct chain: %v", err)
	}

	return c
}

func submit(t *testing.T, c *chain.Chain) {
	t.Helper()

	tx, err := database.NewTransfer("me", "you", 22.4)
	if err != nil {
		t.Fatalf("unable to create transaction: %v", err)
	}

	if _, err := c.SubmitTransaction(tx, "me", ""); err != nil {
		t.Fatalf("unable to submit transaction: %v", err)
	}
}

func waitForBlocks(c *chain.Chain, n int) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.RetrieveBlocks()) >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func Test_SignalMining(t *testing.T) {
	t.Log("Given the need to mine in the background.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining is signaled.", testID)
		{
			c := newChain(t, 0)

			w := worker.Run(c, 0, nil)
			defer w.Shutdown()

			submit(t, c)
			w.SignalStartMining()

			if !waitForBlocks(c, 2) {
				t.Fatalf("\t%s\tTest %d:\tShould mine a block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould mine a block.", success, testID)

			if l := c.QueryMempoolLength(); l != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould drain the pool, got %d.", failed, testID, l)
			}
			t.Logf("\t%s\tTest %d:\tShould drain the pool.", success, testID)
		}
	}
}

func Test_IntervalMining(t *testing.T) {
	c := newChain(t, 0)

	w := worker.Run(c, 20*time.Millisecond, nil)
	defer w.Shutdown()

	submit(t, c)

	if !waitForBlocks(c, 2) {
		t.Fatal("expected a block to be mined on the interval")
	}
}

func Test_ShutdownCancelsMining(t *testing.T) {
	c := newChain(t, 0)
	c.SetDifficulty(database.MaxDifficulty + 1)

	w := worker.Run(c, 0, nil)

	submit(t, c)
	w.SignalStartMining()

	// Give the worker a moment to start the unsolvable search.
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected shutdown to cancel the mining operation")
	}

	if l := c.QueryMempoolLength(); l != 1 {
		t.Fatalf("expected the pool to be unchanged, got %d", l)
	}
}
