// Package hasher provides the content hashing needs of the blockchain. Every
// fingerprint in the ledger is a sha256 digest produced by this package.
package hasher

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Size is the number of bytes in a digest.
const Size = sha256.Size

// Digest represents a 32 byte sha256 hash value.
type Digest [Size]byte

// ZeroDigest represents a digest of zeros. It is used as the previous hash
// of the genesis block.
var ZeroDigest Digest

// =============================================================================

// Hash returns the digest of the json encoding of the value. Struct fields
// are encoded in declaration order so the same value always produces the
// same digest.
func Hash(value any) (Digest, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroDigest, fmt.Errorf("hash: %w", err)
	}

	return sha256.Sum256(data), nil
}

// Sum returns the digest of the raw bytes.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine returns the digest of the two digests concatenated, left first.
func Combine(left Digest, right Digest) Digest {
	var buf [2 * Size]byte
	copy(buf[:Size], left[:])
	copy(buf[Size:], right[:])

	return sha256.Sum256(buf[:])
}

// FromHex converts a 0x prefixed hex string into a digest.
func FromHex(s string) (Digest, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return ZeroDigest, fmt.Errorf("decoding digest %q: %w", s, err)
	}

	if len(b) != Size {
		return ZeroDigest, fmt.Errorf("decoding digest %q: invalid length %d", s, len(b))
	}

	var d Digest
	copy(d[:], b)

	return d, nil
}

// =============================================================================

// Hex returns the 0x prefixed lower case hex form of the digest.
func (d Digest) Hex() string {
	return hexutil.Encode(d[:])
}

// String implements the fmt.Stringer interface.
func (d Digest) String() string {
	return d.Hex()
}

// IsZero reports whether the digest is the zero digest.
func (d Digest) IsZero() bool {
	return d == ZeroDigest
}

// Bytes returns a copy of the digest as a slice.
func (d Digest) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, d[:])
	return b
}

// MarshalText implements the encoding.TextMarshaler interface so digests
// are encoded as hex strings in json.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.Hex()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Digest) UnmarshalText(text []byte) error {
	v, err := FromHex(string(text))
	if err != nil {
		return err
	}

	*d = v
	return nil
}
