package consensus

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var networks = []Parameters{MainNetwork{}, TestNetwork{}, MainNet, TestNet}

func TestUpgradeTableConsistency(t *testing.T) {
	for i := range upgradeTable {
		require.Equal(t, NetworkUpgrade(i), upgradeTable[i].upgrade, "row %d out of place", i)
		require.NotEmpty(t, upgradeTable[i].name)
		require.Equal(t, BranchID(i+1), upgradeTable[i].branch)
	}
	require.Len(t, UpgradesInOrder(), numUpgrades)
}

func TestActivationHeightsStrictlyIncrease(t *testing.T) {
	order := UpgradesInOrder()
	for _, p := range networks {
		for i := 1; i < len(order); i++ {
			a, okA := p.ActivationHeight(order[i-1])
			b, okB := p.ActivationHeight(order[i])
			if !okA || !okB {
				continue
			}
			require.Less(t, a, b, "%s on %s: %s must activate before %s",
				order[i], NetworkOf(p), order[i-1], order[i])
		}
	}
}

func TestIsActive(t *testing.T) {
	p := MainNetwork{}
	require.False(t, p.IsActive(Overwinter, 0))
	require.False(t, p.IsActive(Overwinter, 347_499))
	require.True(t, p.IsActive(Overwinter, 347_500))

	t.Run("monotone", func(t *testing.T) {
		for _, nu := range UpgradesInOrder() {
			h, ok := p.ActivationHeight(nu)
			require.True(t, ok)
			for _, height := range []BlockHeight{h, h + 1, h + 1000, math.MaxUint32} {
				require.True(t, p.IsActive(nu, height), "%s at %d", nu, height)
			}
			if h > 0 {
				require.False(t, p.IsActive(nu, h-1))
			}
		}
	})
}

func TestBranchForHeight(t *testing.T) {
	cases := []struct {
		height BlockHeight
		want   BranchID
	}{
		{0, BranchSprout},
		{347_499, BranchSprout},
		{347_500, BranchOverwinter},
		{419_199, BranchOverwinter},
		{419_200, BranchSapling},
		{570_000, BranchYcash},
		{9_999_999, BranchYcash},
		{10_000_000, BranchBlossom},
		{30_000_000, BranchCanopy},
		{math.MaxUint32, BranchCanopy},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, BranchForHeight(MainNetwork{}, tc.height), "height %d", tc.height)
		require.Equal(t, tc.want, BranchForHeight(MainNet, tc.height), "height %d via dispatcher", tc.height)
	}

	require.Equal(t, BranchSapling, BranchForHeight(TestNetwork{}, 280_000))
	require.Equal(t, BranchOverwinter, BranchForHeight(TestNet, 279_999))
}

func TestBranchIDWire(t *testing.T) {
	for b := BranchID(0); int(b) < numBranches; b++ {
		got, err := BranchIDFromUint32(b.Uint32())
		require.NoError(t, err)
		require.Equal(t, b, got)
	}

	got, err := BranchIDFromUint32(0)
	require.NoError(t, err)
	require.Equal(t, BranchSprout, got)

	_, err = BranchIDFromUint32(1)
	require.ErrorIs(t, err, ErrUnknownBranchID)

	require.Equal(t, uint32(0x76b809bb), BranchSapling.Uint32())
	require.Equal(t, "Sapling", BranchSapling.String())
	require.Equal(t, "Sprout", BranchSprout.String())
}

func TestHeightConversions(t *testing.T) {
	h, err := HeightFromUint64(math.MaxUint32)
	require.NoError(t, err)
	require.Equal(t, BlockHeight(math.MaxUint32), h)

	_, err = HeightFromUint64(math.MaxUint32 + 1)
	require.ErrorIs(t, err, ErrHeightOutOfRange)

	_, err = HeightFromInt64(-1)
	var convErr *HeightConversionError
	require.True(t, errors.As(err, &convErr))
	require.Equal(t, "int64", convErr.From)
	require.Equal(t, "-1", convErr.Value)

	_, err = HeightFromInt32(-5)
	require.ErrorIs(t, err, ErrHeightOutOfRange)

	h, err = HeightFromInt32(math.MaxInt32)
	require.NoError(t, err)
	require.Equal(t, uint32(math.MaxInt32), h.Uint32())

	_, err = HeightFromInt(-3)
	require.ErrorIs(t, err, ErrHeightOutOfRange)
}

func TestHeightArithmetic(t *testing.T) {
	h := BlockHeight(100)
	require.Equal(t, BlockHeight(150), h.Add(50))
	require.Equal(t, BlockHeight(40), h.Sub(60))
	require.Equal(t, BlockHeight(0), h.SubHeight(h))

	_, err := h.CheckedSub(101)
	require.ErrorIs(t, err, ErrHeightUnderflow)
	require.Panics(t, func() { h.Sub(101) })

	_, err = BlockHeight(math.MaxUint32).CheckedAdd(1)
	require.ErrorIs(t, err, ErrHeightOverflow)
	require.Panics(t, func() { BlockHeight(math.MaxUint32).Add(1) })

	require.Equal(t, "100", h.String())
}

func TestNetworkDispatch(t *testing.T) {
	n, err := ParseNetwork("testnet")
	require.NoError(t, err)
	require.Equal(t, TestNet, n)
	require.Equal(t, TestNetwork{}.CoinType(), n.CoinType())
	require.Equal(t, TestNetwork{}.HRPSaplingPaymentAddress(), n.HRPSaplingPaymentAddress())
	require.Equal(t, MainNetwork{}.B58PubkeyAddressPrefix(), MainNet.B58PubkeyAddressPrefix())

	_, err = ParseNetwork("regtest")
	require.Error(t, err)

	require.True(t, ZIP216Enabled(MainNet, 30_000_000))
	require.False(t, ZIP216Enabled(MainNet, 29_999_999))
}
