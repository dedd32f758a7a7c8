package public

import (
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/chain"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
	"github.com/subaquatic-pierre/nebula/foundation/nameservice"
)

// submitRequest is the body of a transfer submission. A zero timestamp is
// replaced with the current time.
type submitRequest struct {
	Sender    string  `json:"sender" validate:"required"`
	Receiver  string  `json:"receiver" validate:"required"`
	Amount    float64 `json:"amount"`
	TimeStamp uint64  `json:"timestamp"`
	Signature string  `json:"signature"`
}

type submitResponse struct {
	NextIndex   uint64 `json:"next_index"`
	Transaction tx     `json:"transaction"`
}

type difficultyRequest struct {
	Value *uint `json:"value" validate:"required,lte=64"`
}

type rewardRequest struct {
	Value *float64 `json:"value" validate:"required,gte=0"`
}

type valueResponse[T any] struct {
	Value T `json:"value"`
}

type tx struct {
	Hash         hasher.Digest     `json:"hash"`
	TimeStamp    uint64            `json:"timestamp"`
	Type         database.TxType   `json:"tx_type"`
	Status       database.TxStatus `json:"status"`
	Sender       string            `json:"sender"`
	SenderName   string            `json:"sender_name"`
	Receiver     string            `json:"receiver"`
	ReceiverName string            `json:"receiver_name"`
	Amount       float64           `json:"amount"`
	Display      string            `json:"display"`
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

type status struct {
	LatestIndex uint64        `json:"latest_index"`
	LatestRoot  hasher.Digest `json:"latest_merkle_root"`
	Blocks      int           `json:"blocks"`
	Pending     int           `json:"pending"`
	Difficulty  uint          `json:"difficulty"`
	Reward      float64       `json:"reward"`
	Miner       string        `json:"miner"`
	MinerName   string        `json:"miner_name"`
}

// =============================================================================

func toTx(t database.Transaction, ns *nameservice.NameService) tx {
	view := tx{
		Hash:      t.Hash,
		TimeStamp: t.TimeStamp,
		Type:      t.Type,
		Status:    t.Status,
	}

	if t.Data != nil {
		view.Display = t.Data.String()
	}

	if td, ok := t.Transfer(); ok {
		view.Sender = td.Sender
		view.SenderName = ns.Lookup(td.Sender)
		view.Receiver = td.Receiver
		view.ReceiverName = ns.Lookup(td.Receiver)
		view.Amount = td.Amount
	}

	return view
}

func toTxs(trans []database.Transaction, ns *nameservice.NameService) []tx {
	out := make([]tx, len(trans))
	for i, t := range trans {
		out[i] = toTx(t, ns)
	}
	return out
}

func toBlock(b database.Block, ns *nameservice.NameService) block {
	return block{
		Index:        b.Header.Index,
		PreviousHash: b.Header.PreviousHash,
		MerkleRoot:   b.Header.MerkleRoot,
		TimeStamp:    b.Header.TimeStamp,
		Nonce:        b.Header.Nonce,
		TxCount:      b.TxCount,
		Transactions: toTxs(b.Transactions, ns),
	}
}

func toBlocks(blocks []database.Block, ns *nameservice.NameService) []block {
	out := make([]block, len(blocks))
	for i, b := range blocks {
		out[i] = toBlock(b, ns)
	}
	return out
}

func toProof(p chain.Proof, ns *nameservice.NameService) proof {
	return proof{
		BlockIndex:  p.BlockIndex,
		MerkleRoot:  p.MerkleRoot,
		Transaction: toTx(p.Transaction, ns),
		Hashes:      p.Hashes,
		Order:       p.Order,
	}
}
