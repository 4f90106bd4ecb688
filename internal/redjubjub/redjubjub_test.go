package redjubjub

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"ycashcore/internal/jubjub"
)

func TestSignVerify(t *testing.T) {
	for _, g := range []jubjub.Point{jubjub.SpendingKeyGenerator, jubjub.ValueCommitmentRandomnessGenerator} {
		sk, err := GeneratePrivateKey(rand.Reader)
		require.NoError(t, err)
		pk := sk.PublicKey(g)

		msg := []byte("sapling spend authorization")
		sig, err := sk.Sign(rand.Reader, msg, g)
		require.NoError(t, err)

		require.True(t, pk.Verify(msg, sig, g, true))
		require.True(t, pk.Verify(msg, sig, g, false))

		require.ErrorIs(t, pk.VerifyDetailed([]byte("other message"), sig, g, true), ErrBadSignature)

		other := jubjub.ValueCommitmentValueGenerator
		require.False(t, pk.Verify(msg, sig, other, true))
	}
}

func TestVerifyRejectsNonCanonicalS(t *testing.T) {
	g := jubjub.SpendingKeyGenerator
	sk := NewPrivateKey(big.NewInt(42))
	pk := sk.PublicKey(g)
	msg := []byte("m")

	sig, err := sk.Sign(rand.Reader, msg, g)
	require.NoError(t, err)

	// S + r encodes the same residue but is not canonical.
	s, err := jubjub.ScalarFromBytes(sig.sbar())
	require.NoError(t, err)
	s.Add(s, jubjub.Order())
	be := s.FillBytes(make([]byte, 32))
	for i := range be {
		sig[32+i] = be[31-i]
	}
	require.ErrorIs(t, pk.VerifyDetailed(msg, sig, g, true), ErrNonCanonicalS)
}

func TestVerifyRPolicy(t *testing.T) {
	g := jubjub.SpendingKeyGenerator
	pk := NewPrivateKey(big.NewInt(7)).PublicKey(g)

	// R = (0, 1) encoded with the sign bit: only acceptable before ZIP 216.
	var sig Signature
	sig[0] = 1
	sig[31] = 0x80

	require.ErrorIs(t, pk.VerifyDetailed(nil, sig, g, true), ErrInvalidR)
	require.NotErrorIs(t, pk.VerifyDetailed(nil, sig, g, false), ErrInvalidR)
}

func TestSignatureFromBytes(t *testing.T) {
	_, err := SignatureFromBytes(make([]byte, 63))
	require.Error(t, err)

	b := make([]byte, SignatureSize)
	b[5] = 9
	sig, err := SignatureFromBytes(b)
	require.NoError(t, err)
	require.Equal(t, byte(9), sig[5])
}
