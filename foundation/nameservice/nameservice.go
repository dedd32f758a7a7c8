// Package nameservice reads a folder of wallet key files and provides a
// name lookup for the addresses they hold.
package nameservice

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// KeyExt is the extension of the private key files read by the service.
const KeyExt = ".ecdsa"

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	names map[string]string
}

// New constructs a name service from the key files under root. The file
// name without its extension becomes the name of the address.
func New(root string) (*NameService, error) {
	ns := NameService{
		names: make(map[string]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != KeyExt {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		address := crypto.PubkeyToAddress(privateKey.PublicKey).Hex()
		ns.names[address] = strings.TrimSuffix(filepath.Base(fileName), KeyExt)

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address, or the address itself
// when it is unknown.
func (ns *NameService) Lookup(address string) string {
	if ns == nil {
		return address
	}

	name, exists := ns.names[address]
	if !exists {
		return address
	}
	return name
}

// Copy returns a copy of the map of addresses and names.
func (ns *NameService) Copy() map[string]string {
	if ns == nil {
		return map[string]string{}
	}

	cpy := make(map[string]string, len(ns.names))
	for address, name := range ns.names {
		cpy[address] = name
	}
	return cpy
}
