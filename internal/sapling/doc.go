// Package sapling verifies the shielded part of a transaction.
//
// A VerificationContext is created per transaction with the malleability
// policy of the active epoch. Every spend and output description is fed to
// CheckSpend and CheckOutput, which accumulate the value commitments; a single
// FinalCheck then proves value conservation through the binding signature.
// The transaction is valid iff every call returned true.
//
// Verification is CPU bound and never blocks. Distinct contexts share nothing
// and may run in parallel; one context must be driven by one goroutine.
//
// The consensus path returns bare booleans. The Diagnose* variants return the
// same outcome as an error describing which check failed, for logging only.
package sapling
