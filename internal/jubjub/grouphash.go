// grouphash.go - Deterministic derivation of the Sapling generators.

package jubjub

import (
	"fmt"

	"github.com/dchest/blake2s"
)

// ghFirstBlock is the uniform random string prepended to every group hash input.
const ghFirstBlock = "096b36a5804bfacef1691e173c366a47ff5ba84a44f26ddd7e8d9f79d5b42df0"

// Personalizations for the generators used in this module.
const (
	SpendingKeyGeneratorPersonalization     = "Zcash_G_"
	ValueCommitmentGeneratorPersonalization = "Zcash_cv"
)

// GroupHash maps tag to a point of the prime-order subgroup, or reports false
// if the digest does not decode or lands on the identity after cofactor clearing.
func GroupHash(tag []byte, personalization string) (Point, bool) {
	if len(personalization) != 8 {
		panic("jubjub: group hash personalization must be 8 bytes")
	}
	h, err := blake2s.New(&blake2s.Config{Size: 32, Person: []byte(personalization)})
	if err != nil {
		panic(err)
	}
	h.Write([]byte(ghFirstBlock))
	h.Write(tag)

	var digest [PointSize]byte
	copy(digest[:], h.Sum(nil))

	p, err := FromBytes(digest)
	if err != nil {
		return Point{}, false
	}
	p = p.MulByCofactor()
	if p.IsIdentity() {
		return Point{}, false
	}
	return p, true
}

// FindGroupHash appends a counter byte to m and returns the first successful
// GroupHash.
func FindGroupHash(m []byte, personalization string) Point {
	tag := append(append([]byte{}, m...), 0)
	i := len(tag) - 1
	for {
		if p, ok := GroupHash(tag, personalization); ok {
			return p
		}
		if tag[i] == 0xff {
			panic(fmt.Sprintf("jubjub: no group hash for %q", m))
		}
		tag[i]++
	}
}

var (
	// SpendingKeyGenerator is the base for spend authorization signatures.
	SpendingKeyGenerator = FindGroupHash(nil, SpendingKeyGeneratorPersonalization)

	// ValueCommitmentValueGenerator is multiplied by the committed amount.
	ValueCommitmentValueGenerator = FindGroupHash([]byte("v"), ValueCommitmentGeneratorPersonalization)

	// ValueCommitmentRandomnessGenerator is multiplied by the blinding factor,
	// and is the base of binding signatures.
	ValueCommitmentRandomnessGenerator = FindGroupHash([]byte("r"), ValueCommitmentGeneratorPersonalization)
)
