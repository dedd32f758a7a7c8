// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.

package merkle_test

import (
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/database"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
	"github.com/subaquatic-pierre/nebula/foundation/blockchain/merkle"
)

// Data fingerprints its string content with sha256.
type Data struct {
	x string
}

// Fingerprint returns the digest of the string content.
func (d Data) Fingerprint() hasher.Digest {
	return hasher.Sum([]byte(d.x))
}

// Equals tests for equality of two piece of data.
func (d Data) Equals(other Data) bool {
	return d.x == other.x
}

func leaf(s string) hasher.Digest {
	return hasher.Sum([]byte(s))
}

var table = []struct {
	testCaseId   int
	data         []Data
	expectedHash hasher.Digest
}{
	{
		testCaseId:   0,
		data:         []Data{{x: "Hello"}},
		expectedHash: hasher.Combine(leaf("Hello"), leaf("Hello")),
	},
	{
		testCaseId:   1,
		data:         []Data{{x: "Hello"}, {x: "Hi"}},
		expectedHash: hasher.Combine(leaf("Hello"), leaf("Hi")),
	},
	{
		testCaseId: 2,
		data:       []Data{{x: "Hello"}, {x: "Hi"}, {x: "Hey"}},
		expectedHash: hasher.Combine(
			hasher.Combine(leaf("Hello"), leaf("Hi")),
			hasher.Combine(leaf("Hey"), leaf("Hey")),
		),
	},
	{
		testCaseId: 3,
		data:       []Data{{x: "Hello"}, {x: "Hi"}, {x: "Hey"}, {x: "Hola"}},
		expectedHash: hasher.Combine(
			hasher.Combine(leaf("Hello"), leaf("Hi")),
			hasher.Combine(leaf("Hey"), leaf("Hola")),
		),
	},
	{
		testCaseId: 4,
		data:       []Data{{x: "1"}, {x: "2"}, {x: "3"}, {x: "4"}, {x: "5"}},
		expectedHash: func() hasher.Digest {
			l12 := hasher.Combine(leaf("1"), leaf("2"))
			l34 := hasher.Combine(leaf("3"), leaf("4"))
			l55 := hasher.Combine(leaf("5"), leaf("5"))
			l1234 := hasher.Combine(l12, l34)
			l5555 := hasher.Combine(l55, l55)
			return hasher.Combine(l1234, l5555)
		}(),
	},
}

// =============================================================================

func Test_NewTree(t *testing.T) {
	for _, tc := range table {
		tree, err := merkle.NewTree(tc.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tc.testCaseId, err)
		}
		if tree.MerkleRoot != tc.expectedHash {
			t.Errorf("[case:%d] error: expected hash equal to %s got %s", tc.testCaseId, tc.expectedHash, tree.MerkleRoot)
		}
		if tree.RootHex() != tc.expectedHash.Hex() {
			t.Errorf("[case:%d] error: expected hex equal to %s got %s", tc.testCaseId, tc.expectedHash.Hex(), tree.RootHex())
		}
	}
}

func Test_EmptyTree(t *testing.T) {
	if _, err := merkle.NewTree([]Data{}); err == nil {
		t.Fatal("error: expected an error for an empty tree")
	}
}

func Test_SingleEqualsPair(t *testing.T) {
	one, err := merkle.Root([]Data{{x: "tx"}})
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	two, err := merkle.Root([]Data{{x: "tx"}, {x: "tx"}})
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	if one != two {
		t.Fatalf("error: expected root of [tx] %s to equal root of [tx, tx] %s", one, two)
	}
}

func Test_Sensitivity(t *testing.T) {
	a, err := merkle.Root([]Data{{x: "sender:me|receiver:you|amount:10.1"}})
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	b, err := merkle.Root([]Data{{x: "sender:me|receiver:you|amount:10.12"}})
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	if a == b {
		t.Fatal("error: expected different roots for different content")
	}

	c, err := merkle.Root([]Data{{x: "1"}, {x: "2"}, {x: "3"}})
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	d, err := merkle.Root([]Data{{x: "2"}, {x: "1"}, {x: "3"}})
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	if c == d {
		t.Fatal("error: expected different roots for different order")
	}
}

func Test_TransactionSensitivity(t *testing.T) {
	root := func(amount float64) hasher.Digest {
		t.Helper()

		var trans []database.Transaction
		for i := 0; i < 5; i++ {
			tx, err := database.NewTransaction(database.TransferData{Sender: "me", Receiver: "you", Amount: amount}, database.TxTypeTransfer, 1000)
			if err != nil {
				t.Fatalf("error: unexpected error: %v", err)
			}
			trans = append(trans, tx)
		}

		r, err := database.MerkleRoot(trans)
		if err != nil {
			t.Fatalf("error: unexpected error: %v", err)
		}
		return r
	}

	a := root(10.1)
	if b := root(10.1); a != b {
		t.Fatalf("error: expected equal roots for equal blocks, got %s and %s", a, b)
	}

	if c := root(10.12); a == c {
		t.Fatal("error: expected different roots for five transfers of 10.1 and 10.12")
	}
}

func Test_RebuildTree(t *testing.T) {
	for _, tc := range table {
		tree, err := merkle.NewTree(tc.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tc.testCaseId, err)
		}
		if err := tree.Rebuild(); err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tc.testCaseId, err)
		}
		if tree.MerkleRoot != tc.expectedHash {
			t.Errorf("[case:%d] error: expected hash equal to %s got %s", tc.testCaseId, tc.expectedHash, tree.MerkleRoot)
		}
	}
}

func Test_RebuildTreeWith(t *testing.T) {
	for i := 0; i < len(table)-1; i++ {
		tree, err := merkle.NewTree(table[i].data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", table[i].testCaseId, err)
		}
		if err := tree.Generate(table[i+1].data); err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", table[i].testCaseId, err)
		}
		if tree.MerkleRoot != table[i+1].expectedHash {
			t.Errorf("[case:%d] error: expected hash equal to %s got %s", table[i].testCaseId, table[i+1].expectedHash, tree.MerkleRoot)
		}
	}
}

func Test_VerifyTree(t *testing.T) {
	for _, tc := range table {
		tree, err := merkle.NewTree(tc.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tc.testCaseId, err)
		}
		if err := tree.Verify(); err != nil {
			t.Errorf("[case:%d] error: expected tree to be valid: %v", tc.testCaseId, err)
		}

		tree.MerkleRoot = hasher.Sum([]byte("tampered"))
		if err := tree.Verify(); err == nil {
			t.Errorf("[case:%d] error: expected tree to be invalid", tc.testCaseId)
		}
	}
}

func Test_VerifyData(t *testing.T) {
	for _, tc := range table {
		tree, err := merkle.NewTree(tc.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tc.testCaseId, err)
		}

		for _, d := range tc.data {
			if err := tree.VerifyData(d); err != nil {
				t.Errorf("[case:%d] error: expected %q to verify: %v", tc.testCaseId, d.x, err)
			}
		}

		if err := tree.VerifyData(Data{x: "missing"}); err == nil {
			t.Errorf("[case:%d] error: expected missing data to fail", tc.testCaseId)
		}
	}
}

func Test_Proof(t *testing.T) {
	tc := table[4]

	tree, err := merkle.NewTree(tc.data)
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	proof, order, err := tree.Proof(Data{x: "3"})
	if err != nil {
		t.Fatalf("error: unexpected error: %v", err)
	}

	if len(proof) != 3 || len(order) != 3 {
		t.Fatalf("error: expected a proof of depth 3, got %d", len(proof))
	}

	if err := merkle.VerifyProof(leaf("3"), proof, order, tree.MerkleRoot); err != nil {
		t.Fatalf("error: expected proof to verify: %v", err)
	}

	if err := merkle.VerifyProof(leaf("4"), proof, order, tree.MerkleRoot); err == nil {
		t.Fatal("error: expected proof for a different leaf to fail")
	}
}

func Test_Values(t *testing.T) {
	for _, tc := range table {
		tree, err := merkle.NewTree(tc.data)
		if err != nil {
			t.Fatalf("[case:%d] error: unexpected error: %v", tc.testCaseId, err)
		}

		values := tree.Values()
		if len(values) != len(tc.data) {
			t.Fatalf("[case:%d] error: expected %d values, got %d", tc.testCaseId, len(tc.data), len(values))
		}
		for i := range values {
			if !values[i].Equals(tc.data[i]) {
				t.Errorf("[case:%d] error: value %d mismatch", tc.testCaseId, i)
			}
		}
	}
}
