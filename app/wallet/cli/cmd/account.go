package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/wallet"
)

var showPrivate bool

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the address and keys of the wallet",
	RunE:  accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().BoolVar(&showPrivate, "private", false, "Also print the private key.")
}

func accountRun(cmd *cobra.Command, args []string) error {
	w, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	data := pterm.TableData{
		{"Field", "Value"},
		{"Address", w.Address()},
		{"Public Key", w.PublicKeyHex()},
	}
	if showPrivate {
		data = append(data, []string{"Private Key", w.PrivateKeyHex()})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
