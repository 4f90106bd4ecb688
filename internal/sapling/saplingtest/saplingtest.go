// Package saplingtest builds valid Sapling descriptions for tests and tools.
//
// The real spend and output circuits are produced by an external parameter
// setup. In their place this package compiles a minimal gnark circuit with the
// same public-input layout. Each public input is tied to its own private
// witness by a separate constraint, so a proof only verifies against the exact
// input vector, in the exact order, it was made for. The package also keeps
// the blinding factors needed to sign a balanced transaction.
package saplingtest

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"ycashcore/internal/consensus"
	"ycashcore/internal/jubjub"
	"ycashcore/internal/redjubjub"
	"ycashcore/internal/sapling"
	"ycashcore/internal/validation"
)

// statementCircuit proves knowledge of a private copy of every public input,
// one constraint per position.
type statementCircuit struct {
	In   []frontend.Variable `gnark:",public"`
	Priv []frontend.Variable
}

func (c *statementCircuit) Define(api frontend.API) error {
	for i := range c.In {
		api.AssertIsEqual(c.In[i], c.Priv[i])
	}
	return nil
}

func newStatement(n int) *statementCircuit {
	return &statementCircuit{
		In:   make([]frontend.Variable, n),
		Priv: make([]frontend.Variable, n),
	}
}

// ProvingSystem is a compiled statement with its Groth16 keys.
type ProvingSystem struct {
	n   int
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	VK  groth16.VerifyingKey
}

// NewProvingSystem compiles a statement over n public inputs and runs a setup.
func NewProvingSystem(n int) (*ProvingSystem, error) {
	ccs, err := frontend.Compile(sapling.Curve.ScalarField(), r1cs.NewBuilder, newStatement(n))
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup failed: %w", err)
	}
	return &ProvingSystem{n: n, ccs: ccs, pk: pk, VK: vk}, nil
}

// Prove produces a proof for the given public inputs.
func (ps *ProvingSystem) Prove(inputs []fr.Element) (groth16.Proof, error) {
	if len(inputs) != ps.n {
		return nil, fmt.Errorf("expected %d public inputs, got %d", ps.n, len(inputs))
	}
	assignment := newStatement(ps.n)
	for i := range inputs {
		assignment.In[i] = inputs[i].BigInt(new(big.Int))
		assignment.Priv[i] = inputs[i].BigInt(new(big.Int))
	}

	w, err := frontend.NewWitness(assignment, sapling.Curve.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(ps.ccs, ps.pk, w)
	if err != nil {
		return nil, fmt.Errorf("proof generation failed: %w", err)
	}
	return proof, nil
}

// Spend is a spend description together with its secrets.
type Spend struct {
	CV           jubjub.Point
	Anchor       fr.Element
	Nullifier    [32]byte
	RK           redjubjub.PublicKey
	SpendAuthSig redjubjub.Signature
	Proof        groth16.Proof

	Value uint64
	RCV   *big.Int
}

// Output is an output description together with its secrets.
type Output struct {
	CV    jubjub.Point
	CMU   fr.Element
	EPK   jubjub.Point
	Proof groth16.Proof

	Value uint64
	RCV   *big.Int
}

// Fixture holds one proving system per statement.
type Fixture struct {
	Spends  *ProvingSystem
	Outputs *ProvingSystem
}

// NewFixture sets up both statements.
func NewFixture() (*Fixture, error) {
	spends, err := NewProvingSystem(sapling.SpendPublicInputs)
	if err != nil {
		return nil, err
	}
	outputs, err := NewProvingSystem(sapling.OutputPublicInputs)
	if err != nil {
		return nil, err
	}
	return &Fixture{Spends: spends, Outputs: outputs}, nil
}

// Spend builds a valid spend of value authorized over sighash.
func (f *Fixture) Spend(value uint64, sighash [32]byte) (*Spend, error) {
	rcv, err := randomScalar()
	if err != nil {
		return nil, err
	}
	rsk, err := redjubjub.GeneratePrivateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	s := &Spend{
		CV:    sapling.ValueCommitment(value, rcv),
		RK:    rsk.PublicKey(jubjub.SpendingKeyGenerator),
		Value: value,
		RCV:   rcv,
	}
	if _, err := s.Anchor.SetRandom(); err != nil {
		return nil, err
	}
	if _, err := rand.Read(s.Nullifier[:]); err != nil {
		return nil, err
	}

	rkBytes := s.RK.Bytes()
	msg := append(rkBytes[:], sighash[:]...)
	if s.SpendAuthSig, err = rsk.Sign(rand.Reader, msg, jubjub.SpendingKeyGenerator); err != nil {
		return nil, err
	}

	s.Proof, err = f.Spends.Prove(sapling.SpendInputs(s.RK.Point, s.CV, s.Anchor, s.Nullifier))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Output builds a valid output of value.
func (f *Fixture) Output(value uint64) (*Output, error) {
	rcv, err := randomScalar()
	if err != nil {
		return nil, err
	}
	esk, err := randomScalar()
	if err != nil {
		return nil, err
	}

	o := &Output{
		CV:    sapling.ValueCommitment(value, rcv),
		EPK:   jubjub.SpendingKeyGenerator.ScalarMul(esk),
		Value: value,
		RCV:   rcv,
	}
	if _, err := o.CMU.SetRandom(); err != nil {
		return nil, err
	}

	o.Proof, err = f.Outputs.Prove(sapling.OutputInputs(o.CV, o.EPK, o.CMU))
	if err != nil {
		return nil, err
	}
	return o, nil
}

// BindingSigningKey returns bsk = sum(spend rcv) - sum(output rcv).
func BindingSigningKey(spends []*Spend, outputs []*Output) redjubjub.PrivateKey {
	bsk := new(big.Int)
	for _, s := range spends {
		bsk.Add(bsk, s.RCV)
	}
	for _, o := range outputs {
		bsk.Sub(bsk, o.RCV)
	}
	return redjubjub.NewPrivateKey(bsk)
}

// ValueBalance returns sum(spend values) - sum(output values).
func ValueBalance(spends []*Spend, outputs []*Output) sapling.Amount {
	var vb int64
	for _, s := range spends {
		vb += int64(s.Value)
	}
	for _, o := range outputs {
		vb -= int64(o.Value)
	}
	return sapling.Amount(vb)
}

// BindingSignature signs sighash with the binding key of the descriptions.
func BindingSignature(spends []*Spend, outputs []*Output, sighash [32]byte) (redjubjub.Signature, error) {
	bsk := BindingSigningKey(spends, outputs)
	bvk := bsk.PublicKey(jubjub.ValueCommitmentRandomnessGenerator).Bytes()
	msg := append(bvk[:], sighash[:]...)
	return bsk.Sign(rand.Reader, msg, jubjub.ValueCommitmentRandomnessGenerator)
}

func randomScalar() (*big.Int, error) {
	return rand.Int(rand.Reader, jubjub.Order())
}

// Transaction is a set of descriptions with a binding signature over one
// sighash.
type Transaction struct {
	Sighash      [32]byte
	Spends       []*Spend
	Outputs      []*Output
	ValueBalance sapling.Amount
	BindingSig   redjubjub.Signature
}

// Transaction builds a signed transaction spending spendValues into
// outputValues. The value balance is the difference.
func (f *Fixture) Transaction(spendValues, outputValues []uint64) (*Transaction, error) {
	tx := &Transaction{}
	if _, err := rand.Read(tx.Sighash[:]); err != nil {
		return nil, err
	}
	for _, v := range spendValues {
		s, err := f.Spend(v, tx.Sighash)
		if err != nil {
			return nil, err
		}
		tx.Spends = append(tx.Spends, s)
	}
	for _, v := range outputValues {
		o, err := f.Output(v)
		if err != nil {
			return nil, err
		}
		tx.Outputs = append(tx.Outputs, o)
	}
	tx.ValueBalance = ValueBalance(tx.Spends, tx.Outputs)

	var err error
	if tx.BindingSig, err = BindingSignature(tx.Spends, tx.Outputs, tx.Sighash); err != nil {
		return nil, err
	}
	return tx, nil
}

// Bundle encodes tx for validation at height.
func (tx *Transaction) Bundle(id string, height consensus.BlockHeight) (*validation.Bundle, error) {
	b := &validation.Bundle{
		ID:           id,
		Height:       height,
		Sighash:      append(validation.Hex(nil), tx.Sighash[:]...),
		ValueBalance: tx.ValueBalance,
		BindingSig:   append(validation.Hex(nil), tx.BindingSig[:]...),
	}
	for _, s := range tx.Spends {
		proof, err := sapling.EncodeProof(s.Proof)
		if err != nil {
			return nil, err
		}
		b.Spends = append(b.Spends, validation.SpendDescription{
			CV:           validation.EncodePoint(s.CV),
			Anchor:       validation.EncodeScalar(s.Anchor),
			Nullifier:    append(validation.Hex(nil), s.Nullifier[:]...),
			RK:           validation.EncodePoint(s.RK.Point),
			Proof:        proof,
			SpendAuthSig: append(validation.Hex(nil), s.SpendAuthSig[:]...),
		})
	}
	for _, o := range tx.Outputs {
		proof, err := sapling.EncodeProof(o.Proof)
		if err != nil {
			return nil, err
		}
		b.Outputs = append(b.Outputs, validation.OutputDescription{
			CV:    validation.EncodePoint(o.CV),
			CMU:   validation.EncodeScalar(o.CMU),
			EPK:   validation.EncodePoint(o.EPK),
			Proof: proof,
		})
	}
	return b, nil
}
