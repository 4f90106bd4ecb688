// verifier.go - Per-transaction verification of Sapling descriptions.

package sapling

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/groth16"

	"ycashcore/internal/jubjub"
	"ycashcore/internal/redjubjub"
)

// VerificationContext accumulates the value commitments of one transaction.
//
// cvSum holds (sum of spend cv) - (sum of output cv). A context moves from
// accumulating to finalized on the first FinalCheck and rejects every call
// after that. It is not safe for concurrent use.
type VerificationContext struct {
	cvSum         jubjub.Point
	zip216Enabled bool
	finalized     bool
}

// NewVerificationContext returns a context for a single transaction.
// zip216Enabled is the malleability policy of the transaction's epoch.
func NewVerificationContext(zip216Enabled bool) *VerificationContext {
	return &VerificationContext{
		cvSum:         jubjub.Identity(),
		zip216Enabled: zip216Enabled,
	}
}

// ZIP216Enabled reports the policy fixed at construction.
func (ctx *VerificationContext) ZIP216Enabled() bool {
	return ctx.zip216Enabled
}

// CVSum returns the running commitment sum.
func (ctx *VerificationContext) CVSum() jubjub.Point {
	return ctx.cvSum
}

// Finalized reports whether FinalCheck has been called.
func (ctx *VerificationContext) Finalized() bool {
	return ctx.finalized
}

// CheckSpend performs the consensus checks on a spend description and
// accumulates its value commitment.
func (ctx *VerificationContext) CheckSpend(
	cv jubjub.Point,
	anchor fr.Element,
	nullifier [32]byte,
	rk redjubjub.PublicKey,
	sighash [32]byte,
	spendAuthSig redjubjub.Signature,
	proof groth16.Proof,
	vk groth16.VerifyingKey,
) bool {
	return ctx.DiagnoseSpend(cv, anchor, nullifier, rk, sighash, spendAuthSig, proof, vk) == nil
}

// DiagnoseSpend is CheckSpend returning the failure reason. It has the same
// effect on the context.
func (ctx *VerificationContext) DiagnoseSpend(
	cv jubjub.Point,
	anchor fr.Element,
	nullifier [32]byte,
	rk redjubjub.PublicKey,
	sighash [32]byte,
	spendAuthSig redjubjub.Signature,
	proof groth16.Proof,
	vk groth16.VerifyingKey,
) error {
	if ctx.finalized {
		return ErrContextFinalized
	}
	if cv.IsSmallOrder() || rk.Point.IsSmallOrder() {
		return ErrSmallOrder
	}

	// The commitment is accumulated before the signature and proof checks.
	// A failure below rejects the whole transaction, so the partial sum is
	// never used; callers inspecting CVSum after a false result see it.
	ctx.cvSum = ctx.cvSum.Add(cv)

	msg := signedMessage(rk.Bytes(), sighash)
	if err := rk.VerifyDetailed(msg[:], spendAuthSig, jubjub.SpendingKeyGenerator, ctx.zip216Enabled); err != nil {
		return fmt.Errorf("%w: %v", ErrSpendAuthSig, err)
	}

	return VerifyProof(proof, vk, SpendInputs(rk.Point, cv, anchor, nullifier))
}

// CheckOutput performs the consensus checks on an output description and
// subtracts its value commitment from the running sum.
func (ctx *VerificationContext) CheckOutput(
	cv jubjub.Point,
	cmu fr.Element,
	epk jubjub.Point,
	proof groth16.Proof,
	vk groth16.VerifyingKey,
) bool {
	return ctx.DiagnoseOutput(cv, cmu, epk, proof, vk) == nil
}

// DiagnoseOutput is CheckOutput returning the failure reason.
func (ctx *VerificationContext) DiagnoseOutput(
	cv jubjub.Point,
	cmu fr.Element,
	epk jubjub.Point,
	proof groth16.Proof,
	vk groth16.VerifyingKey,
) error {
	if ctx.finalized {
		return ErrContextFinalized
	}
	if cv.IsSmallOrder() || epk.IsSmallOrder() {
		return ErrSmallOrder
	}

	ctx.cvSum = ctx.cvSum.Sub(cv)

	return VerifyProof(proof, vk, OutputInputs(cv, epk, cmu))
}

// FinalCheck verifies the declared value balance and the binding signature.
// It must be called exactly once, after every spend and output check.
func (ctx *VerificationContext) FinalCheck(valueBalance Amount, sighash [32]byte, bindingSig redjubjub.Signature) bool {
	return ctx.DiagnoseFinal(valueBalance, sighash, bindingSig) == nil
}

// DiagnoseFinal is FinalCheck returning the failure reason.
func (ctx *VerificationContext) DiagnoseFinal(valueBalance Amount, sighash [32]byte, bindingSig redjubjub.Signature) error {
	if ctx.finalized {
		return ErrContextFinalized
	}
	ctx.finalized = true

	vb, err := ValueBalanceCommitment(valueBalance)
	if err != nil {
		return err
	}

	// bvk = cvSum - [valueBalance]V. Only someone who knows the sum of all
	// blinding factors knows its discrete log with respect to R.
	bvk := redjubjub.PublicKey{Point: ctx.cvSum.Sub(vb)}

	msg := signedMessage(bvk.Bytes(), sighash)
	if err := bvk.VerifyDetailed(msg[:], bindingSig, jubjub.ValueCommitmentRandomnessGenerator, ctx.zip216Enabled); err != nil {
		return fmt.Errorf("%w: %v", ErrBindingSig, err)
	}
	return nil
}

// signedMessage is key encoding || sighash.
func signedMessage(key [jubjub.PointSize]byte, sighash [32]byte) [64]byte {
	var msg [64]byte
	copy(msg[:32], key[:])
	copy(msg[32:], sighash[:])
	return msg
}

// VerifyProof checks a Groth16 proof against public inputs. Malformed keys or
// proofs surface as ErrProof rather than a panic.
func VerifyProof(proof groth16.Proof, vk groth16.VerifyingKey, inputs []fr.Element) (err error) {
	if proof == nil || vk == nil {
		return fmt.Errorf("%w: missing proof or verifying key", ErrProof)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProof, r)
		}
	}()

	w, err := publicWitness(inputs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProof, err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("%w: %v", ErrProof, err)
	}
	return nil
}
