// Package consensus maps chain heights to the consensus rule epoch in force.
//
// Overview:
//   - BlockHeight is a 32-bit chain ordinal with range-checked conversions
//   - NetworkUpgrade enumerates the scheduled rule changes in activation order
//   - Parameters describes one network (main, test) and is a closed set
//   - BranchID identifies a rule epoch and has a fixed 32-bit wire value
//
// Every per-network activation height and branch id comes from a single
// declarative table in upgrades.go.
//
// All lookups are pure, allocation free and safe for concurrent use.
package consensus
