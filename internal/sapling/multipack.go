// multipack.go - Packing of raw bytes into proof public inputs.

package sapling

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// scalarCapacity is the number of bits that always fit in a scalar.
const scalarCapacity = fr.Bits - 1

// BytesToBitsLE expands b into bits, least significant bit of each byte first.
func BytesToBitsLE(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for _, x := range b {
		for i := 0; i < 8; i++ {
			bits = append(bits, (x>>i)&1 == 1)
		}
	}
	return bits
}

// ComputeMultipacking groups bits into chunks of scalarCapacity, each read
// as a little-endian integer.
func ComputeMultipacking(bits []bool) []fr.Element {
	out := make([]fr.Element, 0, (len(bits)+scalarCapacity-1)/scalarCapacity)
	for start := 0; start < len(bits); start += scalarCapacity {
		end := start + scalarCapacity
		if end > len(bits) {
			end = len(bits)
		}

		var cur, coeff fr.Element
		coeff.SetOne()
		for _, bit := range bits[start:end] {
			if bit {
				cur.Add(&cur, &coeff)
			}
			coeff.Double(&coeff)
		}
		out = append(out, cur)
	}
	return out
}

// PackNullifier packs a 32-byte nullifier into exactly two scalars.
func PackNullifier(nf [32]byte) [2]fr.Element {
	packed := ComputeMultipacking(BytesToBitsLE(nf[:]))
	if len(packed) != 2 {
		panic("sapling: nullifier must pack into two scalars")
	}
	return [2]fr.Element{packed[0], packed[1]}
}
