package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	fromBlock string
	toBlock   string
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List the blocks of the chain",
	RunE:  blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVar(&fromBlock, "from", "", "First block number, or latest.")
	blocksCmd.Flags().StringVar(&toBlock, "to", "latest", "Last block number, or latest.")
}

func blocksRun(cmd *cobra.Command, args []string) error {
	path := "/v1/blocks/list"
	if fromBlock != "" {
		path = fmt.Sprintf("/v1/blocks/list/%s/%s", fromBlock, toBlock)
	}

	var blocks []block
	if err := newClient(nodeURL).get(path, &blocks); err != nil {
		return err
	}

	return pterm.DefaultTable.WithHasHeader().WithData(blockTable(blocks)).Render()
}
