package selector_test

import (
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/mempool/selector"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestSelect(t *testing.T) {
	tran := func(receiver string) database.Transaction {
		tx, err := database.NewTransaction(database.TransferData{Sender: "me", Receiver: receiver, Amount: 1}, database.TxTypeTransfer, 1000)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create transaction: %v", failed, err)
		}
		return tx
	}

	txs := []database.Transaction{tran("a"), tran("b"), tran("c")}

	type test struct {
		strategy string
		order    []string
	}

	tt := []test{
		{strategy: selector.StrategyLIFO, order: []string{"c", "b", "a"}},
		{strategy: selector.StrategyFIFO, order: []string{"a", "b", "c"}},
		{strategy: "LIFO", order: []string{"c", "b", "a"}},
	}

	t.Log("Given the need to select pending transactions in order.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen using the %s strategy.", testID, tst.strategy)
			{
				f := func(t *testing.T) {
					fn, err := selector.Retrieve(tst.strategy)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to retrieve the strategy: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to retrieve the strategy.", success, testID)

					got := fn(txs)
					if len(got) != len(tst.order) {
						t.Fatalf("\t%s\tTest %d:\tShould get every transaction back, got %d.", failed, testID, len(got))
					}
					for i, tx := range got {
						td, _ := tx.Transfer()
						if td.Receiver != tst.order[i] {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, td.Receiver)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.order[i])
							t.Fatalf("\t%s\tTest %d:\tShould get the transactions in order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get the transactions in order.", success, testID)

					if td, _ := txs[0].Transfer(); td.Receiver != "a" {
						t.Fatalf("\t%s\tTest %d:\tShould not modify the input.", failed, testID)
					}
				}

				t.Run(tst.strategy, f)
			}
		}
	}

	if _, err := selector.Retrieve("tip"); err == nil {
		t.Fatalf("\t%s\tShould get an error for an unknown strategy.", failed)
	}
}
