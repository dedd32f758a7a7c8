package database

import (
	"context"
	"strconv"
	"strings"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

// MaxDifficulty is the largest difficulty that can be solved. A digest only
// has this many hex characters.
const MaxDifficulty = 2 * hasher.Size

// ProofOfWork searches for the first nonce, starting at zero, that solves the
// puzzle against the last nonce at the specified difficulty. The search only
// ends early when the context is cancelled.
func ProofOfWork(ctx context.Context, lastNonce uint64, difficulty uint, evHandler EventHandler) (uint64, error) {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	ev("database: ProofOfWork: MINING: started: lastNonce[%d] difficulty[%d]", lastNonce, difficulty)
	defer ev("database: ProofOfWork: MINING: completed")

	var nonce uint64
	for {
		if ctx.Err() != nil {
			ev("database: ProofOfWork: MINING: CANCELLED: attempts[%d]", nonce)
			return 0, ctx.Err()
		}

		if ValidProof(lastNonce, nonce, difficulty) {
			ev("database: ProofOfWork: MINING: SOLVED: nonce[%d]", nonce)
			return nonce, nil
		}

		nonce++
		if nonce%1_000_000 == 0 {
			ev("database: ProofOfWork: MINING: attempts[%d]", nonce)
		}
	}
}

// ValidProof checks the digest of the decimal last nonce followed by the
// decimal nonce ends in difficulty hex zeros.
func ValidProof(lastNonce uint64, nonce uint64, difficulty uint) bool {
	if difficulty > MaxDifficulty {
		return false
	}

	guess := strconv.AppendUint(nil, lastNonce, 10)
	guess = strconv.AppendUint(guess, nonce, 10)

	digest := hasher.Sum(guess)
	return isHashSolved(difficulty, digest.Hex())
}

// isHashSolved checks the hex digest ends in a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	return strings.HasSuffix(hash, strings.Repeat("0", int(difficulty)))
}
