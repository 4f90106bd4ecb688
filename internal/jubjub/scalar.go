package jubjub

import (
	"errors"
	"math/big"
)

// ScalarSize is the length of an encoded scalar.
const ScalarSize = 32

// ErrNonCanonicalScalar is returned when an encoded scalar is not below Order.
var ErrNonCanonicalScalar = errors.New("jubjub: non-canonical scalar")

// Order returns r, the order of the prime-order subgroup.
func Order() *big.Int {
	return new(big.Int).Set(&curve.Order)
}

// ScalarFromBytes reads a little-endian scalar, rejecting values >= r.
func ScalarFromBytes(b [ScalarSize]byte) (*big.Int, error) {
	s := leToInt(b[:])
	if s.Cmp(&curve.Order) >= 0 {
		return nil, ErrNonCanonicalScalar
	}
	return s, nil
}

// ScalarFromBytesWide reduces a 64-byte little-endian integer modulo r.
func ScalarFromBytesWide(b [2 * ScalarSize]byte) *big.Int {
	s := leToInt(b[:])
	return s.Mod(s, &curve.Order)
}

// ScalarBytes encodes s mod r in little-endian.
func ScalarBytes(s *big.Int) [ScalarSize]byte {
	red := new(big.Int).Mod(s, &curve.Order)
	var out [ScalarSize]byte
	be := red.FillBytes(make([]byte, ScalarSize))
	for i := range be {
		out[i] = be[ScalarSize-1-i]
	}
	return out
}

func leToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[i] = b[len(b)-1-i]
	}
	return new(big.Int).SetBytes(be)
}
