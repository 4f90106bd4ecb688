// bundle.go - Encoded shielded bundles and their decoding under a malleability policy.

package validation

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/groth16"

	"ycashcore/internal/consensus"
	"ycashcore/internal/jubjub"
	"ycashcore/internal/redjubjub"
	"ycashcore/internal/sapling"
)

// ErrMalformed wraps every decoding failure of a bundle field.
var ErrMalformed = errors.New("validation: malformed bundle")

// Hex is a byte string that marshals as lowercase hex.
type Hex []byte

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h)), nil
}

func (h *Hex) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*h = b
	return nil
}

// SpendDescription is a spend as it appears on the wire.
type SpendDescription struct {
	CV           Hex `json:"cv"`
	Anchor       Hex `json:"anchor"`
	Nullifier    Hex `json:"nullifier"`
	RK           Hex `json:"rk"`
	Proof        Hex `json:"proof"`
	SpendAuthSig Hex `json:"spend_auth_sig"`
}

// OutputDescription is an output as it appears on the wire. Note ciphertexts
// play no part in consensus verification and are not carried.
type OutputDescription struct {
	CV    Hex `json:"cv"`
	CMU   Hex `json:"cmu"`
	EPK   Hex `json:"epk"`
	Proof Hex `json:"proof"`
}

// Bundle is the shielded part of one transaction together with the data the
// verifier needs from the enclosing transaction.
type Bundle struct {
	ID           string                `json:"id,omitempty"`
	Height       consensus.BlockHeight `json:"height"`
	Sighash      Hex                   `json:"sighash"`
	ValueBalance sapling.Amount        `json:"value_balance"`
	Spends       []SpendDescription    `json:"spends"`
	Outputs      []OutputDescription   `json:"outputs"`
	BindingSig   Hex                   `json:"binding_sig"`
}

// spend is a decoded SpendDescription.
type spend struct {
	cv           jubjub.Point
	anchor       fr.Element
	nullifier    [32]byte
	rk           redjubjub.PublicKey
	proof        groth16.Proof
	spendAuthSig redjubjub.Signature
}

type output struct {
	cv    jubjub.Point
	cmu   fr.Element
	epk   jubjub.Point
	proof groth16.Proof
}

func malformed(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, field, err)
}

func decodeSpend(d SpendDescription, zip216Enabled bool) (*spend, error) {
	var (
		s   spend
		err error
	)
	if s.cv, err = decodePoint(d.CV, zip216Enabled); err != nil {
		return nil, malformed("cv", err)
	}
	if s.anchor, err = decodeScalar(d.Anchor); err != nil {
		return nil, malformed("anchor", err)
	}
	if len(d.Nullifier) != len(s.nullifier) {
		return nil, malformed("nullifier", fmt.Errorf("expected 32 bytes, got %d", len(d.Nullifier)))
	}
	copy(s.nullifier[:], d.Nullifier)
	if s.rk.Point, err = decodePoint(d.RK, zip216Enabled); err != nil {
		return nil, malformed("rk", err)
	}
	if s.proof, err = sapling.DecodeProof(d.Proof); err != nil {
		return nil, malformed("proof", err)
	}
	if s.spendAuthSig, err = redjubjub.SignatureFromBytes(d.SpendAuthSig); err != nil {
		return nil, malformed("spend_auth_sig", err)
	}
	return &s, nil
}

func decodeOutput(d OutputDescription, zip216Enabled bool) (*output, error) {
	var (
		o   output
		err error
	)
	if o.cv, err = decodePoint(d.CV, zip216Enabled); err != nil {
		return nil, malformed("cv", err)
	}
	if o.cmu, err = decodeScalar(d.CMU); err != nil {
		return nil, malformed("cmu", err)
	}
	if o.epk, err = decodePoint(d.EPK, zip216Enabled); err != nil {
		return nil, malformed("epk", err)
	}
	if o.proof, err = sapling.DecodeProof(d.Proof); err != nil {
		return nil, malformed("proof", err)
	}
	return &o, nil
}

func decodePoint(b Hex, zip216Enabled bool) (jubjub.Point, error) {
	var enc [jubjub.PointSize]byte
	if len(b) != len(enc) {
		return jubjub.Point{}, fmt.Errorf("expected %d bytes, got %d", len(enc), len(b))
	}
	copy(enc[:], b)
	return jubjub.FromBytesWithPolicy(enc, zip216Enabled)
}

// decodeScalar reads a canonical little-endian field element.
func decodeScalar(b Hex) (fr.Element, error) {
	var enc [fr.Bytes]byte
	if len(b) != len(enc) {
		return fr.Element{}, fmt.Errorf("expected %d bytes, got %d", len(enc), len(b))
	}
	copy(enc[:], b)
	return fr.LittleEndian.Element(&enc)
}

// EncodeScalar is the inverse of the bundle's scalar decoding.
func EncodeScalar(e fr.Element) Hex {
	var enc [fr.Bytes]byte
	fr.LittleEndian.PutElement(&enc, e)
	return enc[:]
}

// EncodePoint returns the canonical encoding of p.
func EncodePoint(p jubjub.Point) Hex {
	enc := p.Bytes()
	return enc[:]
}
