package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/merkle"
)

var withProof bool

var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Look up a transaction by hash",
	Args:  cobra.ExactArgs(1),
	RunE:  txRun,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.Flags().BoolVar(&withProof, "proof", false, "Fetch and check the merkle inclusion proof.")
}

func txRun(cmd *cobra.Command, args []string) error {
	hash, err := hasher.FromHex(args[0])
	if err != nil {
		return fmt.Errorf("invalid hash: %w", err)
	}

	c := newClient(nodeURL)

	var t tx
	if err := c.get("/v1/tx/"+hash.Hex(), &t); err != nil {
		return err
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(txTable([]tx{t})).Render(); err != nil {
		return err
	}

	if !withProof {
		return nil
	}

	var p proof
	if err := c.get("/v1/tx/proof/"+hash.Hex(), &p); err != nil {
		return err
	}

	if err := checkProof(hash, p); err != nil {
		return err
	}

	pterm.Success.Printfln("included in block %d under root %s", p.BlockIndex, p.MerkleRoot)

	return nil
}

// checkProof verifies the proof links the hash to the reported root.
func checkProof(hash hasher.Digest, p proof) error {
	if p.Transaction.Hash != hash {
		return fmt.Errorf("proof is for transaction %s", p.Transaction.Hash)
	}

	if err := merkle.VerifyProof(hash, p.Hashes, p.Order, p.MerkleRoot); err != nil {
		return fmt.Errorf("proof does not verify: %w", err)
	}

	return nil
}
