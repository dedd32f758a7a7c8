// Package wallet manages the secp256k1 key pair a user or miner transacts
// with. Keys are stored on disk as hex encoded private key files.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
)

// KeyExt is the extension used for key files.
const KeyExt = ".ecdsa"

// Wallet holds a private key and the address derived from it.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
}

// New generates a wallet with a fresh key pair.
func New() (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return &Wallet{privateKey: privateKey}, nil
}

// Load reads the wallet stored in the key file at path.
func Load(path string) (*Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading key %s: %w", path, err)
	}

	return &Wallet{privateKey: privateKey}, nil
}

// LoadOrCreate loads the named wallet from folder, generating and saving a
// new one when no key file exists yet.
func LoadOrCreate(folder string, name string) (w *Wallet, created bool, err error) {
	path := Path(folder, name)

	w, err = Load(path)
	if err == nil {
		return w, false, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}

	if w, err = New(); err != nil {
		return nil, false, err
	}

	if err := w.Save(path); err != nil {
		return nil, false, err
	}

	return w, true, nil
}

// Path returns the key file location for the named wallet.
func Path(folder string, name string) string {
	return filepath.Join(folder, name+KeyExt)
}

// Save writes the private key to path, creating the parent folder.
func (w *Wallet) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating key folder: %w", err)
	}

	if err := crypto.SaveECDSA(path, w.privateKey); err != nil {
		return fmt.Errorf("saving key %s: %w", path, err)
	}

	return nil
}

// Address returns the checksummed hex address for the wallet.
func (w *Wallet) Address() string {
	return crypto.PubkeyToAddress(w.privateKey.PublicKey).Hex()
}

// PublicKeyHex returns the uncompressed public key in hex.
func (w *Wallet) PublicKeyHex() string {
	return hexutil.Encode(crypto.FromECDSAPub(&w.privateKey.PublicKey))
}

// PrivateKeyHex returns the private key in hex.
func (w *Wallet) PrivateKeyHex() string {
	return hexutil.Encode(crypto.FromECDSA(w.privateKey))
}

// Sign signs the hash of the transaction and returns the 65 byte
// [R|S|V] signature in hex.
func (w *Wallet) Sign(tx database.Transaction) (string, error) {
	sig, err := crypto.Sign(tx.Hash.Bytes(), w.privateKey)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	return hexutil.Encode(sig), nil
}
