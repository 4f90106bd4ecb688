// inputs.go - Public input vectors for the spend and output statements.

package sapling

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/witness"

	"ycashcore/internal/jubjub"
)

const (
	// SpendPublicInputs is the length of the spend statement:
	// rk (u, v), cv (u, v), anchor, nullifier (2 packed scalars).
	SpendPublicInputs = 7

	// OutputPublicInputs is the length of the output statement:
	// cv (u, v), epk (u, v), cmu.
	OutputPublicInputs = 5
)

// SpendInputs builds the public inputs of a spend proof.
func SpendInputs(rk, cv jubjub.Point, anchor fr.Element, nullifier [32]byte) []fr.Element {
	in := make([]fr.Element, 0, SpendPublicInputs)
	in = appendAffine(in, rk)
	in = appendAffine(in, cv)
	in = append(in, anchor)
	nf := PackNullifier(nullifier)
	return append(in, nf[0], nf[1])
}

// OutputInputs builds the public inputs of an output proof.
func OutputInputs(cv, epk jubjub.Point, cmu fr.Element) []fr.Element {
	in := make([]fr.Element, 0, OutputPublicInputs)
	in = appendAffine(in, cv)
	in = appendAffine(in, epk)
	return append(in, cmu)
}

func appendAffine(dst []fr.Element, p jubjub.Point) []fr.Element {
	u, v := p.Affine()
	return append(dst, u, v)
}

// publicWitness wraps inputs as a gnark public witness over BLS12-381.
func publicWitness(inputs []fr.Element) (witness.Witness, error) {
	w, err := witness.New(ecc.BLS12_381.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("public witness creation failed: %w", err)
	}
	values := make(chan any, len(inputs))
	for i := range inputs {
		values <- inputs[i]
	}
	close(values)
	if err := w.Fill(len(inputs), 0, values); err != nil {
		return nil, fmt.Errorf("public witness fill failed: %w", err)
	}
	return w, nil
}
