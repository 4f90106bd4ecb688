package sapling

import "errors"

var (
	// ErrSmallOrder is returned when a commitment or key lies in the torsion subgroup.
	ErrSmallOrder = errors.New("sapling: small order point")

	// ErrSpendAuthSig is returned when the spend authorization signature fails.
	ErrSpendAuthSig = errors.New("sapling: invalid spend authorization signature")

	// ErrBindingSig is returned when the binding signature fails, which is how
	// a value balance mismatch surfaces.
	ErrBindingSig = errors.New("sapling: invalid binding signature")

	// ErrProof is returned when the Groth16 proof does not verify.
	ErrProof = errors.New("sapling: invalid zero-knowledge proof")

	// ErrValueBalanceOutOfRange is returned for a value balance whose
	// magnitude exceeds MaxMoney.
	ErrValueBalanceOutOfRange = errors.New("sapling: value balance out of range")

	// ErrContextFinalized is returned when a context is used after FinalCheck.
	ErrContextFinalized = errors.New("sapling: verification context already finalized")
)

// RejectReason maps a verification error to a short label for metrics.
func RejectReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrSmallOrder):
		return "small_order"
	case errors.Is(err, ErrSpendAuthSig):
		return "spend_auth_sig"
	case errors.Is(err, ErrBindingSig):
		return "binding_sig"
	case errors.Is(err, ErrProof):
		return "proof"
	case errors.Is(err, ErrValueBalanceOutOfRange):
		return "value_balance_range"
	case errors.Is(err, ErrContextFinalized):
		return "finalized"
	default:
		return "other"
	}
}
