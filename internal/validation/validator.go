// validator.go - Drives the Sapling verification context over whole bundles.
//
// For each bundle the validator resolves the consensus branch at the bundle's
// height, derives the ZIP 216 policy from it, and feeds every spend and output
// into a fresh sapling.VerificationContext before the final balance check.

package validation

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ycashcore/internal/consensus"
	"ycashcore/internal/redjubjub"
	"ycashcore/internal/sapling"
)

var (
	// ErrSaplingInactive is returned for a non-empty bundle below Sapling activation.
	ErrSaplingInactive = errors.New("validation: sapling is not active at this height")

	// ErrDuplicateNullifier is returned when a bundle spends the same note twice.
	ErrDuplicateNullifier = errors.New("validation: duplicate nullifier in bundle")
)

// Reason returns a short label for a validation error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrSaplingInactive):
		return "sapling_inactive"
	case errors.Is(err, ErrDuplicateNullifier):
		return "duplicate_nullifier"
	default:
		return sapling.RejectReason(err)
	}
}

// Result is the outcome of validating one bundle.
type Result struct {
	ID     string
	Branch consensus.BranchID
	Err    error
}

// Valid reports whether the bundle was accepted.
func (r Result) Valid() bool {
	return r.Err == nil
}

// Validator checks shielded bundles against one network's rules.
type Validator struct {
	params   consensus.Parameters
	spendVK  groth16.VerifyingKey
	outputVK groth16.VerifyingKey
	log      zerolog.Logger
	metrics  *Metrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for rejection diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Validator) {
		v.log = log
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(v *Validator) {
		v.metrics = m
	}
}

// NewValidator returns a validator for params using the given verifying keys.
func NewValidator(params consensus.Parameters, spendVK, outputVK groth16.VerifyingKey, opts ...Option) *Validator {
	v := &Validator{
		params:   params,
		spendVK:  spendVK,
		outputVK: outputVK,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks one bundle. The bundle is valid iff Result.Err is nil.
func (v *Validator) Validate(b *Bundle) Result {
	start := time.Now()
	branch := consensus.BranchForHeight(v.params, b.Height)

	err := v.validate(b)
	v.metrics.recordResult(err, time.Since(start))

	if err != nil {
		v.log.Debug().
			Str("bundle", b.ID).
			Stringer("height", b.Height).
			Stringer("branch", branch).
			Str("reason", Reason(err)).
			Err(err).
			Msg("bundle rejected")
	}
	return Result{ID: b.ID, Branch: branch, Err: err}
}

func (v *Validator) validate(b *Bundle) error {
	if len(b.Spends) > 0 || len(b.Outputs) > 0 {
		if !v.params.IsActive(consensus.Sapling, b.Height) {
			return ErrSaplingInactive
		}
	}

	var sighash [32]byte
	if len(b.Sighash) != len(sighash) {
		return malformed("sighash", fmt.Errorf("expected 32 bytes, got %d", len(b.Sighash)))
	}
	copy(sighash[:], b.Sighash)

	bindingSig, err := redjubjub.SignatureFromBytes(b.BindingSig)
	if err != nil {
		return malformed("binding_sig", err)
	}

	if err := checkNullifiers(b.Spends); err != nil {
		return err
	}

	zip216 := consensus.ZIP216Enabled(v.params, b.Height)
	ctx := sapling.NewVerificationContext(zip216)

	for i, d := range b.Spends {
		s, err := decodeSpend(d, zip216)
		if err != nil {
			return fmt.Errorf("spend %d: %w", i, err)
		}
		v.metrics.recordDescription("spend")
		if err := ctx.DiagnoseSpend(s.cv, s.anchor, s.nullifier, s.rk, sighash, s.spendAuthSig, s.proof, v.spendVK); err != nil {
			return fmt.Errorf("spend %d: %w", i, err)
		}
	}

	for i, d := range b.Outputs {
		o, err := decodeOutput(d, zip216)
		if err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
		v.metrics.recordDescription("output")
		if err := ctx.DiagnoseOutput(o.cv, o.cmu, o.epk, o.proof, v.outputVK); err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
	}

	return ctx.DiagnoseFinal(b.ValueBalance, sighash, bindingSig)
}

// checkNullifiers rejects a bundle that reveals the same nullifier twice.
func checkNullifiers(spends []SpendDescription) error {
	seen := make(map[string]struct{}, len(spends))
	for _, s := range spends {
		nf := hex.EncodeToString(s.Nullifier)
		if _, ok := seen[nf]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateNullifier, nf)
		}
		seen[nf] = struct{}{}
	}
	return nil
}

// ValidateBatch validates independent bundles concurrently, at most limit at
// a time. Results are returned in input order. Each bundle gets its own
// verification context, so no state is shared between workers.
func (v *Validator) ValidateBatch(ctx context.Context, bundles []*Bundle, limit int) ([]Result, error) {
	results := make([]Result, len(bundles))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, b := range bundles {
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = v.Validate(b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
