package cmd

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

func testClient(url string) *client {
	c := newClient(url)
	c.backoff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}
	return c
}

func TestClientRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"value":2}`))
	}))
	defer srv.Close()

	var resp struct {
		Value uint `json:"value"`
	}
	if err := testClient(srv.URL).get("/v1/chain/difficulty", &resp); err != nil {
		t.Fatalf("get: %v", err)
	}

	if calls != 3 || resp.Value != 2 {
		t.Fatalf("got calls[%d] value[%d]", calls, resp.Value)
	}
}

func TestClientGivesUp(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testClient(srv.URL).get("/v1/blocks/list", nil)

	var ae *apiError
	if !errors.As(err, &ae) || ae.Status != http.StatusInternalServerError {
		t.Fatalf("expected a server error, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 1 call and 3 retries, got %d", calls)
	}
}

func TestClientErrorIsFinal(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"transaction not verified"}`))
	}))
	defer srv.Close()

	err := testClient(srv.URL).post("/v1/tx/submit", map[string]string{"sender": "me"}, nil)

	var ae *apiError
	if !errors.As(err, &ae) {
		t.Fatalf("expected an api error, got %v", err)
	}
	if ae.Status != http.StatusForbidden || ae.Err != "transaction not verified" {
		t.Fatalf("got %+v", ae)
	}
	if calls != 1 {
		t.Fatalf("expected no retries, got %d calls", calls)
	}
}

// countingTransport counts the round trips made by a client.
type countingTransport struct {
	calls int
}

func (ct *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ct.calls++
	return http.DefaultTransport.RoundTrip(r)
}

func TestClientWriteNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := testClient(srv.URL).post("/v1/tx/submit", map[string]string{"sender": "me"}, nil)

	var ae *apiError
	if !errors.As(err, &ae) || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected a server error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a submit to be sent once, got %d calls", calls)
	}
}

func TestClientWriteRetriesDial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ct := countingTransport{}
	c := testClient(url)
	c.http = &http.Client{Transport: &ct}

	if err := c.post("/v1/tx/submit", map[string]string{"sender": "me"}, nil); err == nil {
		t.Fatal("expected an error from a closed node")
	}
	if ct.calls != 4 {
		t.Fatalf("expected 1 call and 3 retries when the node cannot be dialed, got %d", ct.calls)
	}
}

func TestCheckProof(t *testing.T) {
	var trans []database.Transaction
	for _, amount := range []float64{1, 2, 3} {
		tran, err := database.NewTransaction(database.TransferData{Sender: "me", Receiver: "you", Amount: amount}, database.TxTypeTransfer, 1)
		if err != nil {
			t.Fatalf("transaction: %v", err)
		}
		trans = append(trans, tran)
	}

	blk, err := database.NewBlock(1, hasher.ZeroDigest, 0, 1, trans)
	if err != nil {
		t.Fatalf("block: %v", err)
	}

	tree, err := blk.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}

	hashes, order, err := tree.Proof(trans[2])
	if err != nil {
		t.Fatalf("proof: %v", err)
	}

	p := proof{
		BlockIndex:  1,
		MerkleRoot:  blk.Header.MerkleRoot,
		Transaction: tx{Hash: trans[2].Hash},
		Hashes:      hashes,
		Order:       order,
	}

	if err := checkProof(trans[2].Hash, p); err != nil {
		t.Fatalf("expected the proof to verify: %v", err)
	}

	p.MerkleRoot = hasher.Sum([]byte("other"))
	if err := checkProof(trans[2].Hash, p); err == nil {
		t.Fatal("expected a proof against another root to fail")
	}

	if err := checkProof(trans[0].Hash, p); err == nil {
		t.Fatal("expected a proof for another transaction to fail")
	}
}
