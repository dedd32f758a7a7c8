// Package checkgrp maintains the group of handlers for health checking.
package checkgrp

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/chain"
	"go.uber.org/zap"
)

// defaultReadyTimeout is used when Handlers.ReadyTimeout is zero.
const defaultReadyTimeout = time.Second

// Handlers manages the set of check endpoints.
type Handlers struct {
	Build        string
	Log          *zap.SugaredLogger
	Chain        *chain.Chain
	ReadyTimeout time.Duration
}

// Readiness checks the chain answers a read within the timeout. A long
// proof of work search holds the chain and reports the node as busy.
func (h Handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	timeout := h.ReadyTimeout
	if timeout == 0 {
		timeout = defaultReadyTimeout
	}

	latest := make(chan uint64, 1)
	go func() {
		latest <- h.Chain.RetrieveLatestBlock().Header.Index
	}()

	data := struct {
		Status      string  `json:"status"`
		LatestIndex *uint64 `json:"latest_index,omitempty"`
	}{
		Status: "ok",
	}
	statusCode := http.StatusOK

	select {
	case index := <-latest:
		data.LatestIndex = &index
	case <-time.After(timeout):
		data.Status = "chain busy"
		statusCode = http.StatusServiceUnavailable
	}

	if err := response(w, statusCode, data); err != nil {
		h.Log.Errorw("readiness", "ERROR", err)
	}

	h.Log.Infow("readiness", "statusCode", statusCode, "method", r.Method, "path", r.URL.Path, "remoteaddr", r.RemoteAddr)
}

// Liveness reports the process is up along with its build and miner. It
// does not touch the chain lock.
func (h Handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	host, err := os.Hostname()
	if err != nil {
		host = "unavailable"
	}

	data := struct {
		Status string `json:"status"`
		Build  string `json:"build"`
		Host   string `json:"host"`
		PID    int    `json:"pid"`
		Miner  string `json:"miner"`
	}{
		Status: "up",
		Build:  h.Build,
		Host:   host,
		PID:    os.Getpid(),
		Miner:  h.Chain.MinerAddress(),
	}

	statusCode := http.StatusOK
	if err := response(w, statusCode, data); err != nil {
		h.Log.Errorw("liveness", "ERROR", err)
	}

	h.Log.Infow("liveness", "statusCode", statusCode, "method", r.Method, "path", r.URL.Path, "remoteaddr", r.RemoteAddr)
}

func response(w http.ResponseWriter, statusCode int, data any) error {

	// Convert the response value to JSON.
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	// Set the content type and headers once we know marshaling has succeeded.
	w.Header().Set("Content-Type", "application/json")

	// Write the status code to the response.
	w.WriteHeader(statusCode)

	// Send the result back to the client.
	if _, err := w.Write(jsonData); err != nil {
		return err
	}

	return nil
}
