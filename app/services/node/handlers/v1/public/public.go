// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/subaquatic-pierre/nebula/business/web/errs"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/chain"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
	"github.com/subaquatic-pierre/nebula/foundation/events"
	"github.com/subaquatic-pierre/nebula/foundation/nameservice"
	"github.com/subaquatic-pierre/nebula/foundation/web"
	"go.uber.org/zap"
)

// MiningSignaler starts a background mining operation.
type MiningSignaler interface {
	SignalStartMining()
}

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Chain *chain.Chain
	Miner MiningSignaler
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Status returns a summary of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.Chain.RetrieveLatestBlock()
	params := h.Chain.RetrieveParams()
	miner := h.Chain.MinerAddress()

	st := status{
		LatestIndex: latest.Header.Index,
		LatestRoot:  latest.Header.MerkleRoot,
		Blocks:      int(latest.Header.Index) + 1,
		Pending:     h.Chain.QueryMempoolLength(),
		Difficulty:  params.Difficulty,
		Reward:      params.Reward,
		Miner:       miner,
		MinerName:   h.NS.Lookup(miner),
	}

	return web.Respond(ctx, w, st, http.StatusOK)
}

// SignalMining asks the background worker to mine the pending pool.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.Miner == nil {
		return errs.NewTrusted(errors.New("background mining is not enabled"), http.StatusServiceUnavailable)
	}

	h.Miner.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// SubmitTransaction builds a transfer from the request and places it in the
// pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	timestamp := req.TimeStamp
	if timestamp == 0 {
		timestamp = uint64(v.Now.Unix())
	}

	data := database.TransferData{
		Sender:   req.Sender,
		Receiver: req.Receiver,
		Amount:   req.Amount,
	}

	tran, err := database.NewTransaction(data, database.TxTypeTransfer, timestamp)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", tran.Hash, "data", data)

	accepted, err := h.Chain.SubmitTransaction(tran, req.Sender, req.Signature)
	if err != nil {
		if errors.Is(err, chain.ErrNotVerified) {
			return errs.NewTrusted(chain.ErrNotVerified, http.StatusForbidden)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := submitResponse{
		NextIndex:   h.Chain.RetrieveLatestBlock().Header.Index + 1,
		Transaction: toTx(accepted, h.NS),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.Chain.RetrievePending(), h.NS), http.StatusOK)
}

// Transaction returns the transaction with the specified hash from the
// pending pool or the chain.
func (h Handlers) Transaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash, err := hashParam(r)
	if err != nil {
		return err
	}

	tran, exists := h.Chain.QueryTransaction(hash)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("transaction %s: %w", hash, chain.ErrNotFound), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toTx(tran, h.NS), http.StatusOK)
}

// Proof returns the merkle inclusion proof for a mined transaction.
func (h Handlers) Proof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash, err := hashParam(r)
	if err != nil {
		return err
	}

	p, err := h.Chain.QueryProof(hash)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			return errs.NewTrusted(fmt.Errorf("transaction %s: %w", hash, err), http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, toProof(p, h.NS), http.StatusOK)
}

// MineBlock mines the pending pool into a new block. With an empty pool the
// latest block is returned unchanged.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	blk, err := h.Chain.MineNewBlock(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return errs.NewTrusted(fmt.Errorf("mining cancelled: %w", ctx.Err()), http.StatusServiceUnavailable)
		}
		return err
	}

	h.Log.Infow("mine block", "traceid", v.TraceID, "index", blk.Header.Index, "txs", blk.TxCount)

	return web.Respond(ctx, w, toBlock(blk, h.NS), http.StatusOK)
}

// Blocks returns every block in the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlocks(h.Chain.RetrieveBlocks(), h.NS), http.StatusOK)
}

// BlocksByNumber returns the blocks between from and to inclusive. Either
// bound may be "latest".
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := blockParam(r, "from")
	if err != nil {
		return err
	}

	to, err := blockParam(r, "to")
	if err != nil {
		return err
	}

	blocks, err := h.Chain.QueryBlocksByNumber(from, to)
	if err != nil {
		if errors.Is(err, chain.ErrBlockOutOfRange) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	return web.Respond(ctx, w, toBlocks(blocks, h.NS), http.StatusOK)
}

// Reward returns the current mining reward.
func (h Handlers) Reward(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, valueResponse[float64]{Value: h.Chain.Reward()}, http.StatusOK)
}

// SetReward changes the reward paid for blocks mined from now on.
func (h Handlers) SetReward(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req rewardRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := h.Chain.SetReward(*req.Value); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, valueResponse[float64]{Value: h.Chain.Reward()}, http.StatusOK)
}

// Difficulty returns the current mining difficulty.
func (h Handlers) Difficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, valueResponse[uint]{Value: h.Chain.Difficulty()}, http.StatusOK)
}

// SetDifficulty changes the difficulty used for blocks mined from now on.
func (h Handlers) SetDifficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req difficultyRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Chain.SetDifficulty(*req.Value)

	return web.Respond(ctx, w, valueResponse[uint]{Value: h.Chain.Difficulty()}, http.StatusOK)
}

// =============================================================================

func hashParam(r *http.Request) (hasher.Digest, error) {
	hash, err := hasher.FromHex(web.Param(r, "hash"))
	if err != nil {
		return hasher.Digest{}, errs.NewTrusted(fmt.Errorf("invalid hash: %w", err), http.StatusBadRequest)
	}
	return hash, nil
}

func blockParam(r *http.Request, name string) (uint64, error) {
	value := web.Param(r, name)
	if value == "latest" {
		return chain.QueryLatest, nil
	}

	num, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errs.NewTrusted(fmt.Errorf("invalid %s block number %q", name, value), http.StatusBadRequest)
	}
	return num, nil
}
