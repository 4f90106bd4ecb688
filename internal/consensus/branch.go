// branch.go - Consensus branch ids and epoch resolution.

package consensus

import "fmt"

// BranchID identifies the consensus rule set between two network upgrades.
// Transactions commit to it in their signature hash, which gives two-way
// replay protection across upgrades (ZIP 200).
type BranchID uint8

const (
	// BranchSprout is the rule set at launch, before any upgrade.
	BranchSprout BranchID = iota
	BranchOverwinter
	BranchSapling
	BranchYcash
	BranchBlossom
	BranchHeartwood
	BranchCanopy

	numBranches int = iota
)

// Wire values. Decoding anything else fails.
var branchWire = [numBranches]uint32{
	BranchSprout:     0,
	BranchOverwinter: 0x5ba8_1b19,
	BranchSapling:    0x76b8_09bb,
	BranchYcash:      0x374d_694f,
	BranchBlossom:    0x2bb4_0e60,
	BranchHeartwood:  0xf5b9_230b,
	BranchCanopy:     0xe9ff_75a6,
}

var branchByWire = func() map[uint32]BranchID {
	m := make(map[uint32]BranchID, numBranches)
	for b, v := range branchWire {
		m[v] = BranchID(b)
	}
	return m
}()

// Uint32 returns the wire encoding of b.
func (b BranchID) Uint32() uint32 {
	if int(b) >= numBranches {
		panic("consensus: undefined branch id")
	}
	return branchWire[b]
}

// BranchIDFromUint32 decodes a wire branch id.
func BranchIDFromUint32(v uint32) (BranchID, error) {
	b, ok := branchByWire[v]
	if !ok {
		return 0, fmt.Errorf("0x%08x: %w", v, ErrUnknownBranchID)
	}
	return b, nil
}

func (b BranchID) String() string {
	if b == BranchSprout {
		return "Sprout"
	}
	for i := range upgradeTable {
		if upgradeTable[i].branch == b {
			return upgradeTable[i].name
		}
	}
	return fmt.Sprintf("BranchID(%d)", uint8(b))
}

// BranchForHeight returns the epoch in force at height: the branch of the
// most recent upgrade active there, or Sprout if none is.
func BranchForHeight(p Parameters, height BlockHeight) BranchID {
	for i := numUpgrades - 1; i >= 0; i-- {
		u := &upgradeTable[i]
		if p.IsActive(u.upgrade, height) {
			return u.branch
		}
	}
	return BranchSprout
}

// ZIP216Enabled reports whether the strict point and signature encoding
// rules of ZIP 216 apply at height. They activate with Canopy.
func ZIP216Enabled(p Parameters, height BlockHeight) bool {
	return p.IsActive(Canopy, height)
}
