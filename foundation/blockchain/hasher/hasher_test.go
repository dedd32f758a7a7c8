package hasher_test

import (
	"crypto/sha256"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/subaquatic-pierre/nebula/foundation/blockchain/hasher"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type payload struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
}

func TestHash(t *testing.T) {
	t.Log("Given the need to hash serializable values.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen hashing the same value twice.", testID)
		{
			p := payload{Sender: "me", Receiver: "you", Amount: 10.1}

			h1, err := hasher.Hash(p)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to hash the value: %v", failed, testID, err)
			}
			h2, err := hasher.Hash(p)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to hash the value: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to hash the value.", success, testID)

			if h1 != h2 {
				t.Fatalf("\t%s\tTest %d:\tShould get the same digest: %s != %s", failed, testID, h1, h2)
			}
			t.Logf("\t%s\tTest %d:\tShould get the same digest.", success, testID)

			data, _ := json.Marshal(p)
			if exp := hasher.Digest(sha256.Sum256(data)); exp != h1 {
				t.Fatalf("\t%s\tTest %d:\tShould match sha256 of the json encoding.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould match sha256 of the json encoding.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen hashing values that differ in one field.", testID)
		{
			tt := []payload{
				{Sender: "me", Receiver: "you", Amount: 10.1},
				{Sender: "me", Receiver: "you", Amount: 10.12},
				{Sender: "you", Receiver: "you", Amount: 10.1},
				{Sender: "me", Receiver: "me", Amount: 10.1},
			}

			seen := make(map[hasher.Digest]int)
			for i, p := range tt {
				h, err := hasher.Hash(p)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to hash the value: %v", failed, testID, err)
				}
				if j, exists := seen[h]; exists {
					t.Fatalf("\t%s\tTest %d:\tShould get distinct digests: %d and %d collide", failed, testID, i, j)
				}
				seen[h] = i
			}
			t.Logf("\t%s\tTest %d:\tShould get distinct digests.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen hashing a value that cannot be encoded.", testID)
		{
			if _, err := hasher.Hash(payload{Amount: math.NaN()}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
		}
	}
}

func TestCombine(t *testing.T) {
	l := hasher.Sum([]byte("left"))
	r := hasher.Sum([]byte("right"))

	var buf []byte
	buf = append(buf, l[:]...)
	buf = append(buf, r[:]...)
	exp := hasher.Digest(sha256.Sum256(buf))

	if got := hasher.Combine(l, r); got != exp {
		t.Fatalf("got %s, exp %s", got, exp)
	}

	if hasher.Combine(l, r) == hasher.Combine(r, l) {
		t.Fatal("combine should be order sensitive")
	}
}

func TestText(t *testing.T) {
	d := hasher.Sum([]byte("nebula"))

	s := d.Hex()
	if !strings.HasPrefix(s, "0x") || len(s) != 2+2*hasher.Size {
		t.Fatalf("unexpected hex form %q", s)
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back hasher.Digest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("got %s, exp %s", back, d)
	}

	if _, err := hasher.FromHex("0x1234"); err == nil {
		t.Fatal("expected a length error")
	}

	if !hasher.ZeroDigest.IsZero() || d.IsZero() {
		t.Fatal("zero detection failed")
	}

	const zero = "0x0000000000000000000000000000000000000000000000000000000000000000"
	if hasher.ZeroDigest.Hex() != zero {
		t.Fatalf("got %s, exp %s", hasher.ZeroDigest.Hex(), zero)
	}
}
