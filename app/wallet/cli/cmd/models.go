package cmd

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

type tx struct {
	Hash         hasher.Digest `json:"hash"`
	TimeStamp    uint64        `json:"timestamp"`
	Type         string        `json:"tx_type"`
	Status       string        `json:"status"`
	Sender       string        `json:"sender"`
	SenderName   string        `json:"sender_name"`
	Receiver     string        `json:"receiver"`
	ReceiverName string        `json:"receiver_name"`
	Amount       float64       `json:"amount"`
}

type block struct {
	Index        uint64        `json:"index"`
	PreviousHash hasher.Digest `json:"previous_hash"`
	MerkleRoot   hasher.Digest `json:"merkle_root"`
	TimeStamp    uint64        `json:"timestamp"`
	Nonce        uint64        `json:"nonce"`
	TxCount      int           `json:"tx_count"`
	Transactions []tx          `json:"transactions"`
}

type proof struct {
	BlockIndex  uint64          `json:"block_index"`
	MerkleRoot  hasher.Digest   `json:"merkle_root"`
	Transaction tx              `json:"transaction"`
	Hashes      []hasher.Digest `json:"proof"`
	Order       []int64         `json:"proof_order"`
}

// =============================================================================

func txTable(trans []tx) pterm.TableData {
	data := pterm.TableData{
		{"Hash", "Type", "Status", "Sender", "Receiver", "Amount"},
	}

	for _, t := range trans {
		data = append(data, []string{
			t.Hash.Hex(),
			t.Type,
			t.Status,
			t.SenderName,
			t.ReceiverName,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
		})
	}

	return data
}

func blockTable(blocks []block) pterm.TableData {
	data := pterm.TableData{
		{"Index", "Merkle Root", "Previous Hash", "Nonce", "Txs"},
	}

	for _, b := range blocks {
		data = append(data, []string{
			strconv.FormatUint(b.Index, 10),
			b.MerkleRoot.Hex(),
			b.PreviousHash.Hex(),
			strconv.FormatUint(b.Nonce, 10),
			strconv.Itoa(b.TxCount),
		})
	}

	return data
}
