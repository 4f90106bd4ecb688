// point.go - Jubjub points, encoding and decoding.

package jubjub

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

var (
	// ErrNonCanonical is returned when the v coordinate is not reduced.
	ErrNonCanonical = errors.New("jubjub: non-canonical point encoding")

	// ErrNotOnCurve is returned when no u coordinate exists for v.
	ErrNotOnCurve = errors.New("jubjub: point not on curve")

	// ErrNegativeZero is returned for u = 0 with the sign bit set once ZIP 216
	// applies.
	ErrNegativeZero = errors.New("jubjub: non-canonical encoding of u = 0")
)

// PointSize is the length of an encoded point.
const PointSize = 32

var curve = twistededwards.GetEdwardsCurve()

// Point is an element of the full Jubjub group, including its small-order
// torsion. The zero value is not valid; use Identity.
type Point struct {
	p twistededwards.PointAffine
}

// Identity returns the neutral element (0, 1).
func Identity() Point {
	var p Point
	p.p.Y.SetOne()
	return p
}

// NewPoint builds a point from affine coordinates, checking the curve equation.
func NewPoint(u, v fr.Element) (Point, error) {
	p := Point{p: twistededwards.NewPointAffine(u, v)}
	if !p.p.IsOnCurve() {
		return Point{}, ErrNotOnCurve
	}
	return p, nil
}

// Affine returns the (u, v) coordinates.
func (p Point) Affine() (u, v fr.Element) {
	return p.p.X, p.p.Y
}

func (p Point) Add(q Point) Point {
	var r Point
	r.p.Add(&p.p, &q.p)
	return r
}

func (p Point) Neg() Point {
	var r Point
	r.p.Neg(&p.p)
	return r
}

func (p Point) Sub(q Point) Point {
	return p.Add(q.Neg())
}

func (p Point) Double() Point {
	return p.Add(p)
}

// ScalarMul returns [k]p for a non-negative integer k. k is not reduced, so
// small-order components are multiplied faithfully.
func (p Point) ScalarMul(k *big.Int) Point {
	if k.Sign() < 0 {
		return p.Neg().ScalarMul(new(big.Int).Neg(k))
	}
	var r Point
	r.p.ScalarMultiplication(&p.p, k)
	return r
}

// MulByCofactor returns [8]p.
func (p Point) MulByCofactor() Point {
	return p.Double().Double().Double()
}

func (p Point) Equal(q Point) bool {
	return p.p.X.Equal(&q.p.X) && p.p.Y.Equal(&q.p.Y)
}

func (p Point) IsIdentity() bool {
	var one fr.Element
	one.SetOne()
	return p.p.X.IsZero() && p.p.Y.Equal(&one)
}

// IsSmallOrder reports whether p lies in the torsion subgroup of order 8.
// Such points must never be accepted as commitments or keys.
func (p Point) IsSmallOrder() bool {
	return p.MulByCofactor().IsIdentity()
}

// IsTorsionFree reports whether p lies in the prime-order subgroup.
func (p Point) IsTorsionFree() bool {
	return p.ScalarMul(Order()).IsIdentity()
}

// Bytes returns the Sapling encoding: v in little-endian with the low bit of
// u stored in the top bit of the last byte.
func (p Point) Bytes() [PointSize]byte {
	be := p.p.Y.Bytes()
	var out [PointSize]byte
	for i := range be {
		out[i] = be[PointSize-1-i]
	}
	if isOdd(&p.p.X) {
		out[PointSize-1] |= 0x80
	}
	return out
}

// FromBytes decodes a point under the ZIP 216 rules.
func FromBytes(b [PointSize]byte) (Point, error) {
	return decode(b, true)
}

// FromBytesPreZIP216 decodes a point under the rules in force before ZIP 216,
// which also accept u = 0 with the sign bit set.
func FromBytesPreZIP216(b [PointSize]byte) (Point, error) {
	return decode(b, false)
}

// FromBytesWithPolicy selects the decoding rules by flag.
func FromBytesWithPolicy(b [PointSize]byte, zip216Enabled bool) (Point, error) {
	return decode(b, zip216Enabled)
}

func decode(b [PointSize]byte, zip216Enabled bool) (Point, error) {
	sign := b[PointSize-1]>>7 == 1

	var be [PointSize]byte
	for i := range b {
		be[i] = b[PointSize-1-i]
	}
	be[0] &= 0x7f

	var v fr.Element
	if err := v.SetBytesCanonical(be[:]); err != nil {
		return Point{}, ErrNonCanonical
	}

	// a*u^2 + v^2 = 1 + d*u^2*v^2  =>  u^2 = (1 - v^2) / (a - d*v^2)
	var vv, num, den, u fr.Element
	vv.Square(&v)
	num.SetOne()
	num.Sub(&num, &vv)
	den.Mul(&curve.D, &vv)
	den.Sub(&curve.A, &den)
	if den.IsZero() {
		return Point{}, ErrNotOnCurve
	}
	den.Inverse(&den)
	num.Mul(&num, &den)
	if u.Sqrt(&num) == nil {
		return Point{}, ErrNotOnCurve
	}

	if u.IsZero() {
		if sign && zip216Enabled {
			return Point{}, ErrNegativeZero
		}
	} else if isOdd(&u) != sign {
		u.Neg(&u)
	}

	return Point{p: twistededwards.NewPointAffine(u, v)}, nil
}

func isOdd(e *fr.Element) bool {
	b := e.Bytes()
	return b[len(b)-1]&1 == 1
}
