// Package cmd contains the wallet commands.
package cmd

import (
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/wallet"
)

var (
	walletName string
	walletPath string
	nodeURL    string
)

var rootCmd = &cobra.Command{
	Use:           "wallet",
	Short:         "Manage keys and talk to a nebula node",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&walletName, "wallet", "w", "private", "Name of the wallet key file.")
	rootCmd.PersistentFlags().StringVarP(&walletPath, "wallet-path", "p", "zblock/wallets/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node.")
}

func getPrivateKeyPath() string {
	return wallet.Path(walletPath, strings.TrimSuffix(walletName, wallet.KeyExt))
}
