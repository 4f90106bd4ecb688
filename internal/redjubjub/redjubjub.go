// redjubjub.go - RedJubjub signatures over the Jubjub curve.
//
// A signature is (Rbar, Sbar) where R = [r]G and S = r + H*(Rbar || M)*sk.
// Verification accepts iff [8](-[S]G + R + [c]vk) is the identity.
//
// The generator G is a parameter: spend authorization signatures use the
// spending key generator, binding signatures use the value commitment
// randomness generator.

package redjubjub

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	blake2b "github.com/minio/blake2b-simd"

	"ycashcore/internal/jubjub"
)

// SignatureSize is the encoded length of a signature.
const SignatureSize = 64

// hStarPersonalization is the BLAKE2b personalization of H*.
const hStarPersonalization = "Zcash_RedJubjubH"

var (
	ErrInvalidR      = errors.New("redjubjub: R is not a valid point encoding")
	ErrNonCanonicalS = errors.New("redjubjub: S is not a canonical scalar")
	ErrBadSignature  = errors.New("redjubjub: signature equation does not hold")
)

// Signature is Rbar || Sbar.
type Signature [SignatureSize]byte

// SignatureFromBytes copies a 64-byte slice into a Signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureSize {
		return sig, fmt.Errorf("redjubjub: signature must be %d bytes, got %d", SignatureSize, len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

func (s Signature) rbar() [jubjub.PointSize]byte {
	var r [jubjub.PointSize]byte
	copy(r[:], s[:32])
	return r
}

func (s Signature) sbar() [jubjub.ScalarSize]byte {
	var r [jubjub.ScalarSize]byte
	copy(r[:], s[32:])
	return r
}

// HStar hashes the concatenation of parts with BLAKE2b-512 under the
// RedJubjub personalization and reduces the digest modulo the subgroup order.
func HStar(parts ...[]byte) *big.Int {
	h, err := blake2b.New(&blake2b.Config{Size: 64, Person: []byte(hStarPersonalization)})
	if err != nil {
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	var wide [64]byte
	copy(wide[:], h.Sum(nil))
	return jubjub.ScalarFromBytesWide(wide)
}

// PublicKey is a verification key.
type PublicKey struct {
	Point jubjub.Point
}

// Bytes returns the canonical encoding of the key.
func (pk PublicKey) Bytes() [jubjub.PointSize]byte {
	return pk.Point.Bytes()
}

// Verify reports whether sig is a valid signature of msg under pk with base
// generator. zip216Enabled selects the strict decoding of R.
func (pk PublicKey) Verify(msg []byte, sig Signature, generator jubjub.Point, zip216Enabled bool) bool {
	return pk.VerifyDetailed(msg, sig, generator, zip216Enabled) == nil
}

// VerifyDetailed is Verify with the failure reason.
func (pk PublicKey) VerifyDetailed(msg []byte, sig Signature, generator jubjub.Point, zip216Enabled bool) error {
	rbar := sig.rbar()

	// c = H*(Rbar || M)
	c := HStar(rbar[:], msg)

	r, err := jubjub.FromBytesWithPolicy(rbar, zip216Enabled)
	if err != nil {
		return ErrInvalidR
	}

	s, err := jubjub.ScalarFromBytes(sig.sbar())
	if err != nil {
		return ErrNonCanonicalS
	}

	// 0 = h_G * (-[S]G + R + [c]vk)
	check := pk.Point.ScalarMul(c).Add(r).Sub(generator.ScalarMul(s))
	if !check.MulByCofactor().IsIdentity() {
		return ErrBadSignature
	}
	return nil
}

// PrivateKey is a signing key: a scalar modulo the subgroup order.
type PrivateKey struct {
	s *big.Int
}

// NewPrivateKey reduces s modulo the subgroup order.
func NewPrivateKey(s *big.Int) PrivateKey {
	return PrivateKey{s: new(big.Int).Mod(s, jubjub.Order())}
}

// GeneratePrivateKey draws a uniformly distributed key from rand.
func GeneratePrivateKey(rand io.Reader) (PrivateKey, error) {
	var wide [64]byte
	if _, err := io.ReadFull(rand, wide[:]); err != nil {
		return PrivateKey{}, fmt.Errorf("redjubjub: reading randomness: %w", err)
	}
	return PrivateKey{s: jubjub.ScalarFromBytesWide(wide)}, nil
}

// Scalar returns a copy of the secret scalar.
func (sk PrivateKey) Scalar() *big.Int {
	return new(big.Int).Set(sk.s)
}

// PublicKey derives [sk]generator.
func (sk PrivateKey) PublicKey(generator jubjub.Point) PublicKey {
	return PublicKey{Point: generator.ScalarMul(sk.s)}
}

// Sign produces a signature of msg with base generator.
func (sk PrivateKey) Sign(rand io.Reader, msg []byte, generator jubjub.Point) (Signature, error) {
	// T = (l_H + 128) bits of randomness, l_H = 512
	var t [80]byte
	if _, err := io.ReadFull(rand, t[:]); err != nil {
		return Signature{}, fmt.Errorf("redjubjub: reading randomness: %w", err)
	}

	// r = H*(T || M)
	r := HStar(t[:], msg)

	rbar := generator.ScalarMul(r).Bytes()

	// S = r + H*(Rbar || M) * sk
	s := HStar(rbar[:], msg)
	s.Mul(s, sk.s)
	s.Add(s, r)
	sbar := jubjub.ScalarBytes(s)

	var sig Signature
	copy(sig[:32], rbar[:])
	copy(sig[32:], sbar[:])
	return sig, nil
}
