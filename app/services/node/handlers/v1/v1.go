// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/subaquatic-pierre/nebula/app/services/node/handlers/v1/public"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/chain"
	"github.com/subaquatic-pierre/nebula/foundation/events"
	"github.com/subaquatic-pierre/nebula/foundation/nameservice"
	"github.com/subaquatic-pierre/nebula/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// MiningSignaler starts a background mining operation.
type MiningSignaler = public.MiningSignaler

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	Chain *chain.Chain
	Miner MiningSignaler
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		Chain: cfg.Chain,
		Miner: cfg.Miner,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/node/status", pbl.Status)
	app.Handle(http.MethodPost, version, "/mining/signal", pbl.SignalMining)

	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/tx/pending/list", pbl.Pending)
	app.Handle(http.MethodGet, version, "/tx/proof/:hash", pbl.Proof)
	app.Handle(http.MethodGet, version, "/tx/:hash", pbl.Transaction)

	app.Handle(http.MethodPost, version, "/blocks/mine", pbl.MineBlock)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/list/:from/:to", pbl.BlocksByNumber)

	app.Handle(http.MethodGet, version, "/chain/reward", pbl.Reward)
	app.Handle(http.MethodPost, version, "/chain/reward", pbl.SetReward)
	app.Handle(http.MethodGet, version, "/chain/difficulty", pbl.Difficulty)
	app.Handle(http.MethodPost, version, "/chain/difficulty", pbl.SetDifficulty)
}
