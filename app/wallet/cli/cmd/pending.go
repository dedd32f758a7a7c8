package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List the transactions waiting to be mined",
	RunE:  pendingRun,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}

func pendingRun(cmd *cobra.Command, args []string) error {
	var trans []tx
	if err := newClient(nodeURL).get("/v1/tx/pending/list", &trans); err != nil {
		return err
	}

	if len(trans) == 0 {
		pterm.Info.Println("no pending transactions")
		return nil
	}

	return pterm.DefaultTable.WithHasHeader().WithData(txTable(trans)).Render()
}
