package validation_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ycashcore/internal/consensus"
	"ycashcore/internal/sapling"
	"ycashcore/internal/sapling/saplingtest"
	"ycashcore/internal/validation"
)

const (
	// Between Ycash activation and Canopy on mainnet.
	ycashHeight consensus.BlockHeight = 600_000
	canopyHeight consensus.BlockHeight = 30_000_000
)

var loadFixture = sync.OnceValues(saplingtest.NewFixture)

func fixture(t *testing.T) *saplingtest.Fixture {
	t.Helper()
	f, err := loadFixture()
	require.NoError(t, err)
	return f
}

func newValidator(t *testing.T, opts ...validation.Option) *validation.Validator {
	f := fixture(t)
	return validation.NewValidator(consensus.MainNetwork{}, f.Spends.VK, f.Outputs.VK, opts...)
}

func newBundle(t *testing.T, id string, height consensus.BlockHeight, spends, outputs []uint64) *validation.Bundle {
	t.Helper()
	tx, err := fixture(t).Transaction(spends, outputs)
	require.NoError(t, err)
	b, err := tx.Bundle(id, height)
	require.NoError(t, err)
	return b
}

func TestValidateBundle(t *testing.T) {
	v := newValidator(t)

	for _, tc := range []struct {
		height consensus.BlockHeight
		branch consensus.BranchID
	}{
		{consensus.BlockHeight(419_200), consensus.BranchSapling},
		{ycashHeight, consensus.BranchYcash},
		{canopyHeight, consensus.BranchCanopy},
	} {
		b := newBundle(t, "ok", tc.height, []uint64{1_000, 500}, []uint64{1_200})
		res := v.Validate(b)
		require.NoError(t, res.Err, tc.height)
		assert.True(t, res.Valid())
		assert.Equal(t, tc.branch, res.Branch)
		assert.Equal(t, "ok", res.ID)
	}
}

func TestValidateRejections(t *testing.T) {
	v := newValidator(t)

	t.Run("before sapling", func(t *testing.T) {
		b := newBundle(t, "early", 419_199, []uint64{1}, nil)
		res := v.Validate(b)
		require.ErrorIs(t, res.Err, validation.ErrSaplingInactive)
		assert.Equal(t, consensus.BranchOverwinter, res.Branch)
	})

	t.Run("empty bundle before sapling", func(t *testing.T) {
		b := newBundle(t, "empty", 100, nil, nil)
		require.NoError(t, v.Validate(b).Err)
	})

	t.Run("balance off by one", func(t *testing.T) {
		b := newBundle(t, "skew", ycashHeight, []uint64{10}, []uint64{4})
		b.ValueBalance++
		err := v.Validate(b).Err
		require.ErrorIs(t, err, sapling.ErrBindingSig)
		assert.Equal(t, "binding_sig", validation.Reason(err))
	})

	t.Run("balance out of range", func(t *testing.T) {
		b := newBundle(t, "range", ycashHeight, nil, nil)
		b.ValueBalance = sapling.MaxMoney + 1
		require.ErrorIs(t, v.Validate(b).Err, sapling.ErrValueBalanceOutOfRange)
	})

	t.Run("duplicate nullifier", func(t *testing.T) {
		b := newBundle(t, "dup", ycashHeight, []uint64{3}, []uint64{3})
		b.Spends = append(b.Spends, b.Spends[0])
		err := v.Validate(b).Err
		require.ErrorIs(t, err, validation.ErrDuplicateNullifier)
		assert.Equal(t, "duplicate_nullifier", validation.Reason(err))
	})

	t.Run("truncated commitment", func(t *testing.T) {
		b := newBundle(t, "short", ycashHeight, []uint64{3}, nil)
		b.Spends[0].CV = b.Spends[0].CV[:31]
		err := v.Validate(b).Err
		require.ErrorIs(t, err, validation.ErrMalformed)
		assert.Contains(t, err.Error(), "spend 0")
	})

	t.Run("truncated proof", func(t *testing.T) {
		b := newBundle(t, "proof", ycashHeight, nil, []uint64{3})
		b.Outputs[0].Proof = b.Outputs[0].Proof[:10]
		require.ErrorIs(t, v.Validate(b).Err, validation.ErrMalformed)
	})

	t.Run("wrong sighash length", func(t *testing.T) {
		b := newBundle(t, "sighash", ycashHeight, nil, nil)
		b.Sighash = b.Sighash[:16]
		assert.Equal(t, "malformed", validation.Reason(v.Validate(b).Err))
	})

	t.Run("swapped sighash", func(t *testing.T) {
		b := newBundle(t, "swap", ycashHeight, []uint64{2}, nil)
		other := newBundle(t, "other", ycashHeight, nil, nil)
		b.Sighash = other.Sighash
		require.ErrorIs(t, v.Validate(b).Err, sapling.ErrSpendAuthSig)
	})

	t.Run("negative zero epk follows height policy", func(t *testing.T) {
		// u = 0 with the sign bit set: the identity before ZIP 216, invalid after.
		negativeZero := make(validation.Hex, 32)
		negativeZero[0] = 0x01
		negativeZero[31] = 0x80

		before := newBundle(t, "pre-canopy", ycashHeight, nil, []uint64{2})
		before.Outputs[0].EPK = negativeZero
		require.ErrorIs(t, v.Validate(before).Err, sapling.ErrSmallOrder)

		after := newBundle(t, "canopy", canopyHeight, nil, []uint64{2})
		after.Outputs[0].EPK = negativeZero
		err := v.Validate(after).Err
		require.ErrorIs(t, err, validation.ErrMalformed)
		assert.Contains(t, err.Error(), "epk")
	})

	t.Run("small order epk", func(t *testing.T) {
		b := newBundle(t, "epk", ycashHeight, nil, []uint64{2})
		identity := make(validation.Hex, 32)
		identity[0] = 1
		b.Outputs[0].EPK = identity
		require.ErrorIs(t, v.Validate(b).Err, sapling.ErrSmallOrder)
	})
}

func TestBundleJSONRoundTrip(t *testing.T) {
	b := newBundle(t, "json", ycashHeight, []uint64{9}, []uint64{2, 3})

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"height":600000`)

	var decoded validation.Bundle
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, b.Sighash, decoded.Sighash)
	require.NoError(t, newValidator(t).Validate(&decoded).Err)

	bad := strings.Replace(string(raw), `"sighash":"`, `"sighash":"zz`, 1)
	require.Error(t, json.Unmarshal([]byte(bad), &decoded))
}

func TestValidateBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := validation.NewMetrics(reg)
	require.NoError(t, err)

	v := newValidator(t, validation.WithMetrics(metrics), validation.WithLogger(zerolog.Nop()))

	bundles := []*validation.Bundle{
		newBundle(t, "a", ycashHeight, []uint64{5}, []uint64{5}),
		newBundle(t, "b", ycashHeight, []uint64{7}, []uint64{1}),
		newBundle(t, "c", ycashHeight, []uint64{7}, []uint64{1}),
		newBundle(t, "d", ycashHeight, nil, []uint64{4}),
	}
	bundles[2].ValueBalance--

	results, err := v.ValidateBatch(context.Background(), bundles, 2)
	require.NoError(t, err)
	require.Len(t, results, len(bundles))

	for i, res := range results {
		assert.Equal(t, bundles[i].ID, res.ID)
	}
	assert.True(t, results[0].Valid())
	assert.True(t, results[1].Valid())
	assert.False(t, results[2].Valid())
	assert.True(t, results[3].Valid())

	expected := `
# HELP ycash_sapling_bundles_total Shielded bundles validated, by result.
# TYPE ycash_sapling_bundles_total counter
ycash_sapling_bundles_total{result="invalid"} 1
ycash_sapling_bundles_total{result="valid"} 3
# HELP ycash_sapling_descriptions_checked_total Spend and output descriptions passed to the verifier.
# TYPE ycash_sapling_descriptions_checked_total counter
ycash_sapling_descriptions_checked_total{kind="output"} 4
ycash_sapling_descriptions_checked_total{kind="spend"} 3
# HELP ycash_sapling_rejections_total Rejected bundles, by reason.
# TYPE ycash_sapling_rejections_total counter
ycash_sapling_rejections_total{reason="binding_sig"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"ycash_sapling_bundles_total",
		"ycash_sapling_descriptions_checked_total",
		"ycash_sapling_rejections_total",
	))
}

func TestValidateBatchCanceled(t *testing.T) {
	v := newValidator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.ValidateBatch(ctx, []*validation.Bundle{newBundle(t, "x", ycashHeight, nil, nil)}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMetricsRegisterOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := validation.NewMetrics(reg)
	require.NoError(t, err)
	_, err = validation.NewMetrics(reg)
	require.Error(t, err)
}
