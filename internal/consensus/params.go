// params.go - Per-network consensus parameters.
//
// The set of networks is closed: Parameters carries an unexported method so
// only MainNetwork, TestNetwork and the Network dispatcher implement it.

package consensus

import "fmt"

// Parameters is the capability set shared by every network.
type Parameters interface {
	// ActivationHeight returns the height at which nu activates, and false
	// if the network has not scheduled it.
	ActivationHeight(nu NetworkUpgrade) (BlockHeight, bool)

	// IsActive reports whether nu is in force at height.
	IsActive(nu NetworkUpgrade, height BlockHeight) bool

	// CoinType is the SLIP 44 coin type.
	CoinType() uint32

	// Bech32 human readable prefixes (ZIP 32).
	HRPSaplingExtendedSpendingKey() string
	HRPSaplingExtendedFullViewingKey() string
	HRPSaplingPaymentAddress() string

	// Base58Check prefixes for transparent P2PKH and P2SH addresses.
	B58PubkeyAddressPrefix() [2]byte
	B58ScriptAddressPrefix() [2]byte

	network() Network
}

type networkConstants struct {
	coinType  uint32
	hrpXSK    string
	hrpXFVK   string
	hrpAddr   string
	b58Pubkey [2]byte
	b58Script [2]byte
}

var (
	mainnetConstants = networkConstants{
		coinType:  347,
		hrpXSK:    "secret-extended-key-ycash-main",
		hrpXFVK:   "yxviews",
		hrpAddr:   "ys",
		b58Pubkey: [2]byte{0x1c, 0x28},
		b58Script: [2]byte{0x1c, 0x2c},
	}
	testnetConstants = networkConstants{
		coinType:  1,
		hrpXSK:    "secret-extended-key-ycash-test",
		hrpXFVK:   "yxviewtestsapling",
		hrpAddr:   "ytestsapling",
		b58Pubkey: [2]byte{0x1d, 0x25},
		b58Script: [2]byte{0x1c, 0xba},
	}
)

func isActive(p Parameters, nu NetworkUpgrade, height BlockHeight) bool {
	h, ok := p.ActivationHeight(nu)
	return ok && h <= height
}

// MainNetwork is the production network.
type MainNetwork struct{}

var _ Parameters = MainNetwork{}

func (MainNetwork) ActivationHeight(nu NetworkUpgrade) (BlockHeight, bool) {
	a := nu.row().main
	return a.height, a.scheduled
}

func (m MainNetwork) IsActive(nu NetworkUpgrade, height BlockHeight) bool {
	return isActive(m, nu, height)
}

func (MainNetwork) CoinType() uint32                         { return mainnetConstants.coinType }
func (MainNetwork) HRPSaplingExtendedSpendingKey() string    { return mainnetConstants.hrpXSK }
func (MainNetwork) HRPSaplingExtendedFullViewingKey() string { return mainnetConstants.hrpXFVK }
func (MainNetwork) HRPSaplingPaymentAddress() string         { return mainnetConstants.hrpAddr }
func (MainNetwork) B58PubkeyAddressPrefix() [2]byte          { return mainnetConstants.b58Pubkey }
func (MainNetwork) B58ScriptAddressPrefix() [2]byte          { return mainnetConstants.b58Script }
func (MainNetwork) network() Network                         { return MainNet }

// TestNetwork is the public test network.
type TestNetwork struct{}

var _ Parameters = TestNetwork{}

func (TestNetwork) ActivationHeight(nu NetworkUpgrade) (BlockHeight, bool) {
	a := nu.row().test
	return a.height, a.scheduled
}

func (t TestNetwork) IsActive(nu NetworkUpgrade, height BlockHeight) bool {
	return isActive(t, nu, height)
}

func (TestNetwork) CoinType() uint32                         { return testnetConstants.coinType }
func (TestNetwork) HRPSaplingExtendedSpendingKey() string    { return testnetConstants.hrpXSK }
func (TestNetwork) HRPSaplingExtendedFullViewingKey() string { return testnetConstants.hrpXFVK }
func (TestNetwork) HRPSaplingPaymentAddress() string         { return testnetConstants.hrpAddr }
func (TestNetwork) B58PubkeyAddressPrefix() [2]byte          { return testnetConstants.b58Pubkey }
func (TestNetwork) B58ScriptAddressPrefix() [2]byte          { return testnetConstants.b58Script }
func (TestNetwork) network() Network                         { return TestNet }

// Network selects one of the concrete networks at runtime.
type Network uint8

const (
	MainNet Network = iota
	TestNet
)

var _ Parameters = MainNet

// ParseNetwork accepts "main"/"mainnet" and "test"/"testnet".
func ParseNetwork(s string) (Network, error) {
	switch s {
	case "main", "mainnet":
		return MainNet, nil
	case "test", "testnet":
		return TestNet, nil
	default:
		return 0, fmt.Errorf("unknown network %q", s)
	}
}

// Params returns the concrete parameters n dispatches to.
func (n Network) Params() Parameters {
	switch n {
	case MainNet:
		return MainNetwork{}
	case TestNet:
		return TestNetwork{}
	default:
		panic(fmt.Sprintf("consensus: undefined network %d", uint8(n)))
	}
}

func (n Network) ActivationHeight(nu NetworkUpgrade) (BlockHeight, bool) {
	return n.Params().ActivationHeight(nu)
}

func (n Network) IsActive(nu NetworkUpgrade, height BlockHeight) bool {
	return n.Params().IsActive(nu, height)
}

func (n Network) CoinType() uint32 { return n.Params().CoinType() }

func (n Network) HRPSaplingExtendedSpendingKey() string {
	return n.Params().HRPSaplingExtendedSpendingKey()
}

func (n Network) HRPSaplingExtendedFullViewingKey() string {
	return n.Params().HRPSaplingExtendedFullViewingKey()
}

func (n Network) HRPSaplingPaymentAddress() string { return n.Params().HRPSaplingPaymentAddress() }
func (n Network) B58PubkeyAddressPrefix() [2]byte  { return n.Params().B58PubkeyAddressPrefix() }
func (n Network) B58ScriptAddressPrefix() [2]byte  { return n.Params().B58ScriptAddressPrefix() }
func (n Network) network() Network                 { return n }

func (n Network) String() string {
	switch n {
	case MainNet:
		return "main"
	case TestNet:
		return "test"
	default:
		return fmt.Sprintf("Network(%d)", uint8(n))
	}
}

// NetworkOf reports which network p describes.
func NetworkOf(p Parameters) Network {
	return p.network()
}
