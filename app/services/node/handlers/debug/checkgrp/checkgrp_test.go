package checkgrp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/subaquatic-pierre/nebula/app/services/node/handlers/debug/checkgrp"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/chain"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/logger"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Readiness(t *testing.T) {
	var once sync.Once
	searching := make(chan struct{})

	ev := func(v string, args ...any) {
		if strings.Contains(v, "perform POW") {
			once.Do(func() { close(searching) })
		}
	}

	c, err := chain.New(chain.Config{MinerAddress: "test_miner", EvHandler: ev})
	if err != nil {
		t.Fatalf("unable to construct chain: %v", err)
	}
	defer c.Shutdown()

	h := checkgrp.Handlers{
		Build:        "test",
		Log:          logger.NewNop(),
		Chain:        c,
		ReadyTimeout: 50 * time.Millisecond,
	}

	t.Log("Given the need to report the node's readiness.")
	{
		t.Logf("\tTest 0:\tWhen the chain is idle.")
		{
			w := httptest.NewRecorder()
			h.Readiness(w, httptest.NewRequest(http.MethodGet, "/debug/readiness", nil))

			var data struct {
				Status      string  `json:"status"`
				LatestIndex *uint64 `json:"latest_index"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould decode the response : %v", failed, err)
			}
			if w.Code != http.StatusOK || data.LatestIndex == nil || *data.LatestIndex != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould be ready at block 0 : code[%d] body[%s]", failed, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould be ready at block 0.", success)
		}

		t.Logf("\tTest 1:\tWhen a proof of work search holds the chain.")
		{
			tx, err := database.NewTransfer("me", "you", 22.4)
			if err != nil {
				t.Fatalf("unable to create transfer: %v", err)
			}
			if _, err := c.SubmitTransaction(tx, "me", ""); err != nil {
				t.Fatalf("unable to submit: %v", err)
			}

			// No hex digest ends in more than 64 zeros so the search runs until cancelled.
			c.SetDifficulty(database.MaxDifficulty + 1)

			ctx, cancel := context.WithCancel(context.Background())
			mined := make(chan struct{})
			go func() {
				defer close(mined)
				c.MineNewBlock(ctx)
			}()
			defer func() {
				cancel()
				<-mined
			}()

			<-searching

			w := httptest.NewRecorder()
			h.Readiness(w, httptest.NewRequest(http.MethodGet, "/debug/readiness", nil))

			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("\t%s\tTest 1:\tShould report the chain busy : code[%d]", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould report the chain busy.", success)
		}
	}
}

func Test_Liveness(t *testing.T) {
	c, err := chain.New(chain.Config{MinerAddress: "test_miner"})
	if err != nil {
		t.Fatalf("unable to construct chain: %v", err)
	}
	defer c.Shutdown()

	h := checkgrp.Handlers{Build: "test", Log: logger.NewNop(), Chain: c}

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/debug/liveness", nil))

	var data struct {
		Status string `json:"status"`
		Build  string `json:"build"`
		Miner  string `json:"miner"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatalf("unable to decode: %v", err)
	}

	if w.Code != http.StatusOK || data.Status != "up" || data.Build != "test" || data.Miner != "test_miner" {
		t.Fatalf("unexpected liveness code[%d] body[%s]", w.Code, w.Body.String())
	}
}
