package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

// TxType identifies the purpose of a transaction.
type TxType int

// Set of transaction types.
const (
	TxTypeTransfer TxType = iota
	TxTypeReward
	TxTypeGenesisReward
)

var txTypeNames = map[TxType]string{
	TxTypeTransfer:      "Transfer",
	TxTypeReward:        "Reward",
	TxTypeGenesisReward: "GenesisReward",
}

// String implements the fmt.Stringer interface.
func (tt TxType) String() string {
	if s, exists := txTypeNames[tt]; exists {
		return s
	}
	return "TxType(" + strconv.Itoa(int(tt)) + ")"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (tt TxType) MarshalText() ([]byte, error) {
	s, exists := txTypeNames[tt]
	if !exists {
		return nil, fmt.Errorf("unknown transaction type %d", int(tt))
	}
	return []byte(s), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (tt *TxType) UnmarshalText(text []byte) error {
	for k, v := range txTypeNames {
		if v == string(text) {
			*tt = k
			return nil
		}
	}
	return fmt.Errorf("unknown transaction type %q", text)
}

// =============================================================================

// TxStatus represents where a transaction is in its lifecycle. A status
// only ever moves forward: Created, Unconfirmed, Confirmed.
type TxStatus int

// Set of transaction statuses.
const (
	TxStatusCreated TxStatus = iota
	TxStatusUnconfirmed
	TxStatusConfirmed
)

var txStatusNames = map[TxStatus]string{
	TxStatusCreated:     "Created",
	TxStatusUnconfirmed: "Unconfirmed",
	TxStatusConfirmed:   "Confirmed",
}

// String implements the fmt.Stringer interface.
func (ts TxStatus) String() string {
	if s, exists := txStatusNames[ts]; exists {
		return s
	}
	return "TxStatus(" + strconv.Itoa(int(ts)) + ")"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (ts TxStatus) MarshalText() ([]byte, error) {
	s, exists := txStatusNames[ts]
	if !exists {
		return nil, fmt.Errorf("unknown transaction status %d", int(ts))
	}
	return []byte(s), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (ts *TxStatus) UnmarshalText(text []byte) error {
	for k, v := range txStatusNames {
		if v == string(text) {
			*ts = k
			return nil
		}
	}
	return fmt.Errorf("unknown transaction status %q", text)
}

// =============================================================================

// TxData is the payload carried by a transaction. The set of payloads is
// closed to this package.
type TxData interface {
	fmt.Stringer
	kind() string
	validate() error
}

// Set of payload kinds used in the serialized envelope.
const (
	kindTransfer = "transfer"
)

// TransferData moves an amount from a sender to a receiver.
type TransferData struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
}

// String implements the fmt.Stringer interface.
func (td TransferData) String() string {
	amount := strconv.FormatFloat(td.Amount, 'f', -1, 64)
	return "sender:" + td.Sender + "|receiver:" + td.Receiver + "|amount:" + amount
}

func (TransferData) kind() string {
	return kindTransfer
}

func (td TransferData) validate() error {
	if math.IsNaN(td.Amount) || math.IsInf(td.Amount, 0) {
		return fmt.Errorf("amount %v is not a finite number", td.Amount)
	}
	return nil
}

// envelope is the tagged form of a payload used for hashing and storage.
type envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func encodeData(data TxData) (envelope, error) {
	if data == nil {
		return envelope{}, errors.New("transaction data is missing")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return envelope{}, fmt.Errorf("encoding %s payload: %w", data.kind(), err)
	}

	return envelope{Kind: data.kind(), Payload: payload}, nil
}

func decodeData(env envelope) (TxData, error) {
	switch env.Kind {
	case kindTransfer:
		var td TransferData
		if err := json.Unmarshal(env.Payload, &td); err != nil {
			return nil, fmt.Errorf("decoding transfer payload: %w", err)
		}
		return td, nil
	}

	return nil, fmt.Errorf("unknown payload kind %q", env.Kind)
}

// =============================================================================

// Transaction is an immutable payload with a lifecycle status. The hash is
// computed once from the payload and timestamp and never recomputed.
type Transaction struct {
	Hash      hasher.Digest
	TimeStamp uint64
	Type      TxType
	Status    TxStatus
	Data      TxData
}

// NewTransaction constructs a transaction in the Created status.
func NewTransaction(data TxData, txType TxType, timestamp uint64) (Transaction, error) {
	if data == nil {
		return Transaction{}, errors.New("transaction data is missing")
	}

	if err := data.validate(); err != nil {
		return Transaction{}, err
	}

	hash, err := contentHash(data, timestamp)
	if err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		Hash:      hash,
		TimeStamp: timestamp,
		Type:      txType,
		Status:    TxStatusCreated,
		Data:      data,
	}

	return tx, nil
}

// NewTransfer constructs a transfer transaction stamped with the current time.
func NewTransfer(sender string, receiver string, amount float64) (Transaction, error) {
	data := TransferData{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}

	return NewTransaction(data, TxTypeTransfer, uint64(time.Now().UTC().Unix()))
}

// NewReward constructs a reward transaction paying the miner from the root.
func NewReward(txType TxType, miner string, amount float64, timestamp uint64) (Transaction, error) {
	data := TransferData{
		Sender:   RootSender,
		Receiver: miner,
		Amount:   amount,
	}

	return NewTransaction(data, txType, timestamp)
}

// SetStatus moves the transaction to the specified status. Moving backward
// is refused.
func (tx *Transaction) SetStatus(status TxStatus) error {
	if status < tx.Status {
		return fmt.Errorf("%w: %s to %s", ErrStatusRegression, tx.Status, status)
	}

	tx.Status = status
	return nil
}

// Verify checks the signature of the sender against the transaction. No
// signature scheme is enforced so every transaction is accepted.
func (tx Transaction) Verify(sender string, signature string) bool {
	return true
}

// HashMatches reports whether the stored hash matches the content.
func (tx Transaction) HashMatches() bool {
	if tx.Data == nil {
		return false
	}

	hash, err := contentHash(tx.Data, tx.TimeStamp)
	if err != nil {
		return false
	}

	return hash == tx.Hash
}

// Transfer returns the payload as transfer data if that is what it holds.
func (tx Transaction) Transfer() (TransferData, bool) {
	td, ok := tx.Data.(TransferData)
	return td, ok
}

// Fingerprint implements the merkle Hashable interface.
func (tx Transaction) Fingerprint() hasher.Digest {
	return tx.Hash
}

// Equals implements the merkle Hashable interface.
func (tx Transaction) Equals(otherTx Transaction) bool {
	return tx.Hash == otherTx.Hash
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s:%s:%s:%v", tx.Hash, tx.Type, tx.Status, tx.Data)
}

// =============================================================================

// txJSON is the serialized form of a transaction.
type txJSON struct {
	Hash      hasher.Digest `json:"hash"`
	TimeStamp uint64        `json:"timestamp"`
	Type      TxType        `json:"tx_type"`
	Status    TxStatus      `json:"status"`
	Data      envelope      `json:"data"`
}

// MarshalJSON implements the json.Marshaler interface.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	env, err := encodeData(tx.Data)
	if err != nil {
		return nil, err
	}

	return json.Marshal(txJSON{
		Hash:      tx.Hash,
		TimeStamp: tx.TimeStamp,
		Type:      tx.Type,
		Status:    tx.Status,
		Data:      env,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var tj txJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}

	txData, err := decodeData(tj.Data)
	if err != nil {
		return err
	}

	*tx = Transaction{
		Hash:      tj.Hash,
		TimeStamp: tj.TimeStamp,
		Type:      tj.Type,
		Status:    tj.Status,
		Data:      txData,
	}

	return nil
}

// contentHash computes the digest over the tagged payload and timestamp.
func contentHash(data TxData, timestamp uint64) (hasher.Digest, error) {
	env, err := encodeData(data)
	if err != nil {
		return hasher.ZeroDigest, err
	}

	content := struct {
		Data      envelope `json:"data"`
		TimeStamp uint64   `json:"timestamp"`
	}{
		Data:      env,
		TimeStamp: timestamp,
	}

	return hasher.Hash(content)
}

