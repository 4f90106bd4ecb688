// height.go - Block height type with checked arithmetic and conversions.

package consensus

import (
	"fmt"
	"math"
	"strconv"
)

// BlockHeight is a position on the chain. The genesis block is at height 0.
type BlockHeight uint32

// H0 is the genesis height.
const H0 BlockHeight = 0

// HeightFromUint64 converts v, failing if it exceeds math.MaxUint32.
func HeightFromUint64(v uint64) (BlockHeight, error) {
	if v > math.MaxUint32 {
		return 0, &HeightConversionError{From: "uint64", Value: strconv.FormatUint(v, 10)}
	}
	return BlockHeight(v), nil
}

// HeightFromInt64 converts v, failing if it is negative or exceeds math.MaxUint32.
func HeightFromInt64(v int64) (BlockHeight, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, &HeightConversionError{From: "int64", Value: strconv.FormatInt(v, 10)}
	}
	return BlockHeight(v), nil
}

// HeightFromInt32 converts v, failing if it is negative.
func HeightFromInt32(v int32) (BlockHeight, error) {
	if v < 0 {
		return 0, &HeightConversionError{From: "int32", Value: strconv.FormatInt(int64(v), 10)}
	}
	return BlockHeight(v), nil
}

// HeightFromInt converts a platform int.
func HeightFromInt(v int) (BlockHeight, error) {
	h, err := HeightFromInt64(int64(v))
	if err != nil {
		return 0, &HeightConversionError{From: "int", Value: strconv.Itoa(v)}
	}
	return h, nil
}

// Uint32 returns the height as a plain integer.
func (h BlockHeight) Uint32() uint32 {
	return uint32(h)
}

// Int64 widens the height for signed arithmetic.
func (h BlockHeight) Int64() int64 {
	return int64(h)
}

// CheckedAdd returns h+delta, or ErrHeightOverflow.
func (h BlockHeight) CheckedAdd(delta uint32) (BlockHeight, error) {
	if uint64(h)+uint64(delta) > math.MaxUint32 {
		return 0, fmt.Errorf("%d + %d: %w", h, delta, ErrHeightOverflow)
	}
	return h + BlockHeight(delta), nil
}

// Add returns h+delta. The caller guarantees the sum fits in 32 bits;
// overflow is a programming error and panics.
func (h BlockHeight) Add(delta uint32) BlockHeight {
	r, err := h.CheckedAdd(delta)
	if err != nil {
		panic(err)
	}
	return r
}

// CheckedSub returns h-delta, or ErrHeightUnderflow if delta > h. Use it on
// every path where delta derives from untrusted input.
func (h BlockHeight) CheckedSub(delta uint32) (BlockHeight, error) {
	if delta > uint32(h) {
		return 0, fmt.Errorf("%d - %d: %w", h, delta, ErrHeightUnderflow)
	}
	return h - BlockHeight(delta), nil
}

// Sub returns h-delta. Heights are never negative: callers must already know
// delta <= h, and a violation panics.
func (h BlockHeight) Sub(delta uint32) BlockHeight {
	r, err := h.CheckedSub(delta)
	if err != nil {
		panic(err)
	}
	return r
}

// SubHeight returns h-o under the same precondition as Sub.
func (h BlockHeight) SubHeight(o BlockHeight) BlockHeight {
	return h.Sub(uint32(o))
}

func (h BlockHeight) String() string {
	return strconv.FormatUint(uint64(h), 10)
}
