package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/subaquatic-pierre/nebula/foundation/nameservice"
)

func TestLookup(t *testing.T) {
	dir := t.TempDir()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if err := crypto.SaveECDSA(filepath.Join(dir, "miner1.ecdsa"), key); err != nil {
		t.Fatalf("save key: %v", err)
	}

	ns, err := nameservice.New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	if name := ns.Lookup(address); name != "miner1" {
		t.Fatalf("got %q, exp %q", name, "miner1")
	}

	if name := ns.Lookup("unknown"); name != "unknown" {
		t.Fatalf("expected unknown address to resolve to itself, got %q", name)
	}

	if n := len(ns.Copy()); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}

	var nilNS *nameservice.NameService
	if name := nilNS.Lookup(address); name != address {
		t.Fatalf("expected a nil service to echo the address, got %q", name)
	}
}

func TestMissingFolder(t *testing.T) {
	if _, err := nameservice.New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected an error for a missing folder")
	}
}
