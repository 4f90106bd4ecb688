// value.go - Monetary amounts and value commitments.

package sapling

import (
	"fmt"
	"math/big"

	"ycashcore/internal/jubjub"
)

// Amount is a signed number of zatoshis.
type Amount int64

const (
	// Coin is the number of zatoshis in one coin.
	Coin Amount = 100_000_000

	// MaxMoney bounds the magnitude of any amount.
	MaxMoney Amount = 21_000_000 * Coin
)

// NewAmount checks that |v| <= MaxMoney.
func NewAmount(v int64) (Amount, error) {
	a := Amount(v)
	if !a.Valid() {
		return 0, fmt.Errorf("%d: %w", v, ErrValueBalanceOutOfRange)
	}
	return a, nil
}

// Valid reports whether a lies in [-MaxMoney, MaxMoney].
func (a Amount) Valid() bool {
	return a >= -MaxMoney && a <= MaxMoney
}

// ValueBalanceCommitment returns [value]V with no blinding term, the
// commitment a declared value balance stands for.
func ValueBalanceCommitment(value Amount) (jubjub.Point, error) {
	if !value.Valid() {
		return jubjub.Point{}, fmt.Errorf("%d: %w", int64(value), ErrValueBalanceOutOfRange)
	}

	abs := int64(value)
	negative := abs < 0
	if negative {
		abs = -abs
	}

	p := jubjub.ValueCommitmentValueGenerator.ScalarMul(big.NewInt(abs))
	if negative {
		p = p.Neg()
	}
	return p, nil
}

// ValueCommitment returns cv = [value]V + [rcv]R.
func ValueCommitment(value uint64, rcv *big.Int) jubjub.Point {
	v := jubjub.ValueCommitmentValueGenerator.ScalarMul(new(big.Int).SetUint64(value))
	r := jubjub.ValueCommitmentRandomnessGenerator.ScalarMul(new(big.Int).Mod(rcv, jubjub.Order()))
	return v.Add(r)
}
