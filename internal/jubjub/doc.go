// Package jubjub provides the Jubjub twisted Edwards curve used for Sapling
// value commitments, randomized keys and ephemeral keys.
//
// Arithmetic is delegated to gnark-crypto's BLS12-381 companion curve
// (ecc/bls12-381/twistededwards), whose base field is the BLS12-381 scalar
// field. This package adds the Sapling point encoding, the ZIP 216 decoding
// policy, the small-order predicate and the group hash that derives the fixed
// generators.
package jubjub
