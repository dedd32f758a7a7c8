package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var signalOnly bool

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the pending transactions",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().BoolVar(&signalOnly, "signal", false, "Signal the background miner instead of waiting for the block.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	c := newClient(nodeURL)

	if signalOnly {
		if err := c.post("/v1/mining/signal", nil, nil); err != nil {
			return err
		}
		pterm.Success.Println("mining signaled")
		return nil
	}

	spinner, _ := pterm.DefaultSpinner.Start("mining")

	var blk block
	if err := c.post("/v1/blocks/mine", nil, &blk); err != nil {
		if spinner != nil {
			spinner.Fail(err)
		}
		return err
	}

	if spinner != nil {
		spinner.Success("latest block ", blk.Index)
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(blockTable([]block{blk})).Render(); err != nil {
		return err
	}

	return pterm.DefaultTable.WithHasHeader().WithData(txTable(blk.Transactions)).Render()
}
