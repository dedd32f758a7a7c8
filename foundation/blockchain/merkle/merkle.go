// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides an implementation of a merkle tree for aggregating
// the transaction fingerprints of a block into a single root digest.
package merkle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree. The fingerprint of a value is used directly as its leaf.
type Hashable[T any] interface {
	Fingerprint() hasher.Digest
	Equals(other T) bool
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint.
type Tree[T Hashable[T]] struct {
	Root       *Node[T]
	Leafs      []*Node[T]
	MerkleRoot hasher.Digest
}

// NewTree constructs a new merkle tree that uses data of some type T that
// exhibits the behavior defined by the Hashable interface.
func NewTree[T Hashable[T]](values []T) (*Tree[T], error) {
	var t Tree[T]

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Root calculates the merkle root for the set of values without keeping
// the tree around.
func Root[T Hashable[T]](values []T) (hasher.Digest, error) {
	t, err := NewTree(values)
	if err != nil {
		return hasher.ZeroDigest, err
	}

	return t.MerkleRoot, nil
}

// Generate constructs the leafs and nodes of the tree from the specified
// data. If the tree has been generated previously, the tree is re-generated
// from scratch. Any level holding an odd number of nodes has its last node
// duplicated before pairing.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		return errors.New("cannot construct tree with no content")
	}

	leafs := make([]*Node[T], 0, len(values)+1)
	for _, value := range values {
		leafs = append(leafs, &Node[T]{
			Hash:  value.Fingerprint(),
			Value: value,
			leaf:  true,
			Tree:  t,
		})
	}

	leafs = duplicateLast(leafs, t)

	t.Root = buildIntermediate(leafs, t)
	t.Leafs = leafs
	t.MerkleRoot = t.Root.Hash

	return nil
}

// Rebuild is a helper function that will rebuild the tree reusing only the
// data that it currently holds in the leaves.
func (t *Tree[T]) Rebuild() error {
	return t.Generate(t.Values())
}

// Proof returns the set of digests and the order of concatenating those
// digests for proving a value is in the tree. An order of 0 says the proof
// digest is concatenated first, 1 says it comes second.
//
// Given the fingerprint of the value and the proof:
//
//	h := fingerprint
//	for i := range proof {
//		if order[i] == 0 { h = Combine(proof[i], h) } else { h = Combine(h, proof[i]) }
//	}
//
// The calculated h should match the merkle root.
func (t *Tree[T]) Proof(data T) ([]hasher.Digest, []int64, error) {
	for _, node := range t.Leafs {
		if node.dup || !node.Value.Equals(data) {
			continue
		}

		var merkleProof []hasher.Digest
		var order []int64

		for parent := node.Parent; parent != nil; parent = parent.Parent {
			if parent.Left == node {
				merkleProof = append(merkleProof, parent.Right.Hash)
				order = append(order, 1)
			} else {
				merkleProof = append(merkleProof, parent.Left.Hash)
				order = append(order, 0)
			}
			node = parent
		}

		return merkleProof, order, nil
	}

	return nil, nil, errors.New("unable to find data in tree")
}

// Verify validates the digests at each level of the tree and returns an
// error if the recalculated root does not match the stored root.
func (t *Tree[T]) Verify() error {
	if t.Root == nil {
		return errors.New("tree has not been generated")
	}

	if t.Root.verify() != t.MerkleRoot {
		return errors.New("root hash invalid")
	}

	return nil
}

// VerifyData indicates whether a given piece of data is in the tree and the
// digests along its path are valid.
func (t *Tree[T]) VerifyData(data T) error {
	proof, order, err := t.Proof(data)
	if err != nil {
		return err
	}

	return VerifyProof(data.Fingerprint(), proof, order, t.MerkleRoot)
}

// Values returns the values stored in the tree, excluding duplicated leafs.
func (t *Tree[T]) Values() []T {
	values := make([]T, 0, len(t.Leafs))
	for _, node := range t.Leafs {
		if node.dup {
			continue
		}
		values = append(values, node.Value)
	}

	return values
}

// RootHex converts the merkle root to a hex encoded string.
func (t *Tree[T]) RootHex() string {
	return t.MerkleRoot.Hex()
}

// String returns a string representation of the tree. Only leaf nodes are
// included in the output.
func (t *Tree[T]) String() string {
	var b strings.Builder

	for _, l := range t.Leafs {
		b.WriteString(l.String())
		b.WriteString("\n")
	}

	return b.String()
}

// MarshalText implements the TextMarshaler interface and produces a panic
// if anyone tries to marshal the merkle tree. Use the Values function to
// return a slice that can be marshaled.
func (t *Tree[T]) MarshalText() (text []byte, err error) {
	panic("do not marshal the merkle tree, use Values")
}

// =============================================================================

// VerifyProof folds the proof into the leaf digest and checks the result
// against the root.
func VerifyProof(leaf hasher.Digest, proof []hasher.Digest, order []int64, root hasher.Digest) error {
	if len(proof) != len(order) {
		return fmt.Errorf("proof length %d does not match order length %d", len(proof), len(order))
	}

	h := leaf
	for i, p := range proof {
		switch order[i] {
		case 0:
			h = hasher.Combine(p, h)
		case 1:
			h = hasher.Combine(h, p)
		default:
			return fmt.Errorf("invalid proof order %d at position %d", order[i], i)
		}
	}

	if h != root {
		return errors.New("merkle root is not equivalent to the merkle root calculated on the critical path")
	}

	return nil
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. It stores pointers to its
// immediate relationships, a digest, the data if it is a leaf, and other metadata.
type Node[T Hashable[T]] struct {
	Tree   *Tree[T]
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   hasher.Digest
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down the tree until hitting a leaf, calculating the digest at
// each level and returning the resulting digest of the node.
func (n *Node[T]) verify() hasher.Digest {
	if n.leaf {
		return n.Value.Fingerprint()
	}

	return hasher.Combine(n.Left.verify(), n.Right.verify())
}

// String returns a string representation of the node.
func (n *Node[T]) String() string {
	return fmt.Sprintf("%t %t %s %v", n.leaf, n.dup, n.Hash, n.Value)
}

// =============================================================================

// duplicateLast appends a copy of the last node when the level is odd.
func duplicateLast[T Hashable[T]](nl []*Node[T], t *Tree[T]) []*Node[T] {
	if len(nl)%2 == 0 {
		return nl
	}

	last := nl[len(nl)-1]
	dup := Node[T]{
		Tree:  t,
		Left:  last.Left,
		Right: last.Right,
		Hash:  last.Hash,
		Value: last.Value,
		leaf:  last.leaf,
		dup:   true,
	}

	return append(nl, &dup)
}

// buildIntermediate is a helper function that for a given level of nodes,
// constructs the levels above it. Returns the resulting root node of the tree.
func buildIntermediate[T Hashable[T]](nl []*Node[T], t *Tree[T]) *Node[T] {
	nodes := make([]*Node[T], 0, len(nl)/2+1)

	for i := 0; i < len(nl); i += 2 {
		left, right := nl[i], nl[i+1]

		n := Node[T]{
			Left:  left,
			Right: right,
			Hash:  hasher.Combine(left.Hash, right.Hash),
			Tree:  t,
		}

		left.Parent = &n
		right.Parent = &n
		nodes = append(nodes, &n)
	}

	if len(nodes) == 1 {
		return nodes[0]
	}

	return buildIntermediate(duplicateLast(nodes, t), t)
}
