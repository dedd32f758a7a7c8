package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/wallet"
)

var (
	to     string
	amount float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and submit a transfer",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the receiver.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	w, err := wallet.Load(getPrivateKeyPath())
	if err != nil {
		return err
	}

	tran, err := database.NewTransfer(w.Address(), to, amount)
	if err != nil {
		return err
	}

	sig, err := w.Sign(tran)
	if err != nil {
		return err
	}

	req := struct {
		Sender    string  `json:"sender"`
		Receiver  string  `json:"receiver"`
		Amount    float64 `json:"amount"`
		TimeStamp uint64  `json:"timestamp"`
		Signature string  `json:"signature"`
	}{
		Sender:    w.Address(),
		Receiver:  to,
		Amount:    amount,
		TimeStamp: tran.TimeStamp,
		Signature: sig,
	}

	var resp struct {
		NextIndex   uint64 `json:"next_index"`
		Transaction tx     `json:"transaction"`
	}
	if err := newClient(nodeURL).post("/v1/tx/submit", req, &resp); err != nil {
		return err
	}

	if resp.Transaction.Hash != tran.Hash {
		pterm.Warning.Printfln("node recorded hash %s, signed %s", resp.Transaction.Hash, tran.Hash)
	}

	pterm.Success.Printfln("transaction %s accepted", resp.Transaction.Hash)
	pterm.Info.Printfln("expected in block %d", resp.NextIndex)

	return nil
}
