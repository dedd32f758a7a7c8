package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/wallet"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	path := getPrivateKeyPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("wallet %s already exists", path)
	}

	w, err := wallet.New()
	if err != nil {
		return err
	}

	if err := w.Save(path); err != nil {
		return err
	}

	pterm.Success.Printfln("wallet saved to %s", path)
	pterm.Info.Printfln("address %s", w.Address())

	return nil
}
