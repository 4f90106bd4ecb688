// keys.go - Groth16 verifying key and proof codecs over BLS12-381.
//
// Verifying keys come from an external parameter setup; this file only moves
// them between disk and memory in gnark's binary format.

package sapling

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
)

// Curve is the pairing curve of the Sapling circuits.
const Curve = ecc.BLS12_381

// ReadVerifyingKey decodes a verifying key.
func ReadVerifyingKey(r io.Reader) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(Curve)
	if _, err := vk.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("verifying key unmarshaling failed: %w", err)
	}
	return vk, nil
}

// LoadVerifyingKey loads a verifying key from disk.
func LoadVerifyingKey(path string) (groth16.VerifyingKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVerifyingKey(f)
}

// SaveVerifyingKey writes a verifying key to disk.
func SaveVerifyingKey(path string, vk groth16.VerifyingKey) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = vk.WriteTo(f)
	return err
}

// DecodeProof parses a proof.
func DecodeProof(b []byte) (groth16.Proof, error) {
	proof := groth16.NewProof(Curve)
	if _, err := proof.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("proof unmarshaling failed: %w", err)
	}
	return proof, nil
}

// EncodeProof serializes a proof.
func EncodeProof(proof groth16.Proof) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("proof marshaling failed: %w", err)
	}
	return buf.Bytes(), nil
}
