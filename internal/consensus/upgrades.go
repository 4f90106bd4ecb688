// upgrades.go - The single source of truth for network upgrades.
//
// Each row binds an upgrade to its display name, the branch id of the epoch
// it starts, and its activation height on every network. Rows are listed in
// activation order; UpgradesInOrder and all height lookups derive from it.

package consensus

// NetworkUpgrade is an event at which the consensus rules change.
type NetworkUpgrade uint8

const (
	Overwinter NetworkUpgrade = iota
	Sapling
	Ycash
	Blossom
	Heartwood
	Canopy

	numUpgrades int = iota
)

// ZIP212GracePeriod is the number of blocks after Canopy activation during
// which pre-ZIP 212 note plaintexts are still accepted.
const ZIP212GracePeriod uint32 = 32256

// activation is an optional height; the zero value means "not scheduled".
type activation struct {
	height    BlockHeight
	scheduled bool
}

func at(h BlockHeight) activation {
	return activation{height: h, scheduled: true}
}

var unscheduled = activation{}

type upgradeRow struct {
	upgrade NetworkUpgrade
	name    string
	branch  BranchID
	main    activation
	test    activation
}

var upgradeTable = [numUpgrades]upgradeRow{
	{Overwinter, "Overwinter", BranchOverwinter, at(347_500), at(207_500)},
	{Sapling, "Sapling", BranchSapling, at(419_200), at(280_000)},
	{Ycash, "Ycash", BranchYcash, at(570_000), at(510_248)},
	{Blossom, "Blossom", BranchBlossom, at(10_000_000), at(10_000_000)},
	{Heartwood, "Heartwood", BranchHeartwood, at(20_000_000), at(20_000_000)},
	{Canopy, "Canopy", BranchCanopy, at(30_000_000), at(30_000_000)},
}

// UpgradesInOrder returns every upgrade in chronological activation order.
func UpgradesInOrder() []NetworkUpgrade {
	out := make([]NetworkUpgrade, numUpgrades)
	for i := range upgradeTable {
		out[i] = upgradeTable[i].upgrade
	}
	return out
}

func (nu NetworkUpgrade) row() *upgradeRow {
	if int(nu) >= numUpgrades {
		panic("consensus: undefined network upgrade")
	}
	return &upgradeTable[nu]
}

// BranchID returns the epoch that begins when nu activates.
func (nu NetworkUpgrade) BranchID() BranchID {
	return nu.row().branch
}

func (nu NetworkUpgrade) String() string {
	if int(nu) >= numUpgrades {
		return "Unknown"
	}
	return upgradeTable[nu].name
}
