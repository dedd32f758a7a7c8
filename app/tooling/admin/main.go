// This program performs offline administrative tasks against a node's block
// storage. The node must not be running against the same storage.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/subaquatic-pierre/nebula/app/tooling/admin/commands"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/storage"
	"github.com/subaquatic-pierre/nebula/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("admin", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args    conf.Args
		Storage struct {
			Kind string `conf:"default:disk,help:memory|disk|jsonl|leveldb"`
			Path string `conf:"default:zblock/blocks"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "nebula storage administration",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	strg, err := storage.Open(cfg.Storage.Kind, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer strg.Close()

	return processCommands(cfg.Args, log, strg)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, strg commands.Storage) error {
	switch args.Num(0) {
	case "verify":
		if err := commands.Verify(log, strg); err != nil {
			return fmt.Errorf("verifying chain: %w", err)
		}

	case "blocks":
		if err := commands.Blocks(os.Stdout, strg); err != nil {
			return fmt.Errorf("dumping blocks: %w", err)
		}

	case "copy":
		dst, err := storage.Open(args.Num(1), args.Num(2))
		if err != nil {
			return fmt.Errorf("opening destination: %w", err)
		}
		defer dst.Close()

		if err := commands.Copy(log, strg, dst); err != nil {
			return fmt.Errorf("copying chain: %w", err)
		}

	default:
		fmt.Println("verify:                  validate every block in the storage")
		fmt.Println("blocks:                  print the blocks as json")
		fmt.Println("copy <kind> <path>:      copy the chain into an empty storage")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}
