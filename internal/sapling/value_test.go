package sapling

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ycashcore/internal/jubjub"
)

func TestNewAmountBounds(t *testing.T) {
	for _, v := range []int64{0, 1, -1, int64(MaxMoney), -int64(MaxMoney)} {
		a, err := NewAmount(v)
		require.NoError(t, err, v)
		assert.Equal(t, Amount(v), a)
	}
	for _, v := range []int64{int64(MaxMoney) + 1, -int64(MaxMoney) - 1} {
		_, err := NewAmount(v)
		require.ErrorIs(t, err, ErrValueBalanceOutOfRange, v)
	}
}

func TestValueBalanceCommitment(t *testing.T) {
	zero, err := ValueBalanceCommitment(0)
	require.NoError(t, err)
	assert.True(t, zero.IsIdentity())

	pos, err := ValueBalanceCommitment(1000)
	require.NoError(t, err)
	neg, err := ValueBalanceCommitment(-1000)
	require.NoError(t, err)
	assert.True(t, pos.Add(neg).IsIdentity())
	assert.True(t, pos.Equal(ValueCommitment(1000, big.NewInt(0))))

	_, err = ValueBalanceCommitment(MaxMoney)
	require.NoError(t, err)
	_, err = ValueBalanceCommitment(-MaxMoney)
	require.NoError(t, err)
	_, err = ValueBalanceCommitment(MaxMoney + 1)
	require.ErrorIs(t, err, ErrValueBalanceOutOfRange)
}

func TestValueCommitmentIsHomomorphic(t *testing.T) {
	a := ValueCommitment(7, big.NewInt(11))
	b := ValueCommitment(5, big.NewInt(13))
	sum := ValueCommitment(12, big.NewInt(24))
	assert.True(t, a.Add(b).Equal(sum))

	blinding := jubjub.ValueCommitmentRandomnessGenerator.ScalarMul(big.NewInt(24))
	vb, err := ValueBalanceCommitment(12)
	require.NoError(t, err)
	assert.True(t, sum.Sub(vb).Equal(blinding))
}

func TestPackNullifier(t *testing.T) {
	var nf [32]byte
	packed := PackNullifier(nf)
	assert.True(t, packed[0].IsZero())
	assert.True(t, packed[1].IsZero())

	nf[0] = 0x01
	packed = PackNullifier(nf)
	assert.True(t, packed[0].IsOne())
	assert.True(t, packed[1].IsZero())

	// Bit 254 opens the second chunk.
	nf = [32]byte{}
	nf[31] = 0x40
	packed = PackNullifier(nf)
	assert.True(t, packed[0].IsZero())
	assert.True(t, packed[1].IsOne())

	nf[31] = 0xc0
	packed = PackNullifier(nf)
	var three fr.Element
	three.SetUint64(3)
	assert.True(t, packed[1].Equal(&three))
}

func TestPackNullifierFirstChunk(t *testing.T) {
	var nf [32]byte
	for i := range nf {
		nf[i] = 0xff
	}
	packed := PackNullifier(nf)

	want := new(big.Int).Lsh(big.NewInt(1), scalarCapacity)
	want.Sub(want, big.NewInt(1))
	got := packed[0].BigInt(new(big.Int))
	assert.Equal(t, 0, want.Cmp(got))

	var three fr.Element
	three.SetUint64(3)
	assert.True(t, packed[1].Equal(&three))
}

func TestComputeMultipackingChunks(t *testing.T) {
	assert.Len(t, ComputeMultipacking(nil), 0)
	assert.Len(t, ComputeMultipacking(make([]bool, scalarCapacity)), 1)
	assert.Len(t, ComputeMultipacking(make([]bool, scalarCapacity+1)), 2)

	bits := BytesToBitsLE([]byte{0x05})
	assert.Equal(t, []bool{true, false, true, false, false, false, false, false}, bits)
	packed := ComputeMultipacking(bits)
	require.Len(t, packed, 1)
	var five fr.Element
	five.SetUint64(5)
	assert.True(t, packed[0].Equal(&five))
}

func TestInputLayouts(t *testing.T) {
	rk := jubjub.SpendingKeyGenerator
	cv := ValueCommitment(3, big.NewInt(9))
	var anchor fr.Element
	anchor.SetUint64(77)
	var nf [32]byte
	nf[0] = 2

	in := SpendInputs(rk, cv, anchor, nf)
	require.Len(t, in, SpendPublicInputs)
	rku, rkv := rk.Affine()
	cvu, cvv := cv.Affine()
	assert.True(t, in[0].Equal(&rku))
	assert.True(t, in[1].Equal(&rkv))
	assert.True(t, in[2].Equal(&cvu))
	assert.True(t, in[3].Equal(&cvv))
	assert.True(t, in[4].Equal(&anchor))
	var two fr.Element
	two.SetUint64(2)
	assert.True(t, in[5].Equal(&two))
	assert.True(t, in[6].IsZero())

	epk := jubjub.ValueCommitmentValueGenerator
	out := OutputInputs(cv, epk, anchor)
	require.Len(t, out, OutputPublicInputs)
	epku, epkv := epk.Affine()
	assert.True(t, out[0].Equal(&cvu))
	assert.True(t, out[2].Equal(&epku))
	assert.True(t, out[3].Equal(&epkv))
	assert.True(t, out[4].Equal(&anchor))
}

func TestRejectReason(t *testing.T) {
	cases := map[error]string{
		nil:                       "none",
		ErrSmallOrder:             "small_order",
		ErrSpendAuthSig:           "spend_auth_sig",
		ErrBindingSig:             "binding_sig",
		ErrProof:                  "proof",
		ErrValueBalanceOutOfRange: "value_balance_range",
		ErrContextFinalized:       "finalized",
		assert.AnError:            "other",
	}
	for err, want := range cases {
		assert.Equal(t, want, RejectReason(err))
	}
}
