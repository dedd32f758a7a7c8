package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/subaquatic-pierre/nebula/app/services/node/handlers"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/chain"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/wallet"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/worker"
	"github.com/subaquatic-pierre/nebula/foundation/events"
	"github.com/subaquatic-pierre/nebula/foundation/logger"
	"github.com/subaquatic-pierre/nebula/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:120s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		Chain struct {
			Difficulty     uint          `conf:"default:2"`
			Reward         float64       `conf:"default:10"`
			MinerName      string        `conf:"default:miner1"`
			MinerAddress   string        `conf:"help:overrides the address derived from the miner key"`
			SelectStrategy string        `conf:"default:lifo"`
			MineInterval   time.Duration `conf:"default:0s"`
		}
		Storage struct {
			Kind string `conf:"default:memory,help:memory|disk|jsonl|leveldb"`
			Path string `conf:"default:zblock/blocks"`
		}
		Wallet struct {
			Folder string `conf:"default:zblock/wallets/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "nebula ledger node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	if cfg.Chain.Difficulty > database.MaxDifficulty {
		return fmt.Errorf("difficulty %d is above the maximum of %d", cfg.Chain.Difficulty, database.MaxDifficulty)
	}

	// =========================================================================
	// Miner Wallet

	minerAddress := cfg.Chain.MinerAddress
	if minerAddress == "" {
		w, created, err := wallet.LoadOrCreate(cfg.Wallet.Folder, cfg.Chain.MinerName)
		if err != nil {
			return fmt.Errorf("unable to load miner wallet: %w", err)
		}
		minerAddress = w.Address()

		log.Infow("startup", "status", "miner wallet", "name", cfg.Chain.MinerName, "address", minerAddress, "created", created)
	}

	// =========================================================================
	// Name Service Support

	ns, err := nameservice.New(cfg.Wallet.Folder)
	if err != nil {
		return fmt.Errorf("unable to load wallet name service: %w", err)
	}

	for address, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "address", address)
	}

	// =========================================================================
	// Blockchain Support

	strg, err := storage.Open(cfg.Storage.Kind, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	bc, err := chain.New(chain.Config{
		Params: chain.Params{
			Difficulty: cfg.Chain.Difficulty,
			Reward:     cfg.Chain.Reward,
		},
		MinerAddress:   minerAddress,
		SelectStrategy: cfg.Chain.SelectStrategy,
		Storage:        strg,
		EvHandler:      ev,
	})
	if err != nil {
		strg.Close()
		return err
	}
	defer bc.Shutdown()

	// The worker mines in the background when signaled and, with a non zero
	// interval, on every tick.
	wrk := worker.Run(bc, cfg.Chain.MineInterval, ev)
	defer wrk.Shutdown()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log, bc)

	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Chain:    bc,
		Miner:    wrk,
		NS:       ns,
		Evts:     evts,
	})

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
