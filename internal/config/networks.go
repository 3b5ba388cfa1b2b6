package config

import (
	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/spf13/viper"
)

const (
	NetworkMainnet = "mainnet"
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkCustom  = "custom"
)

// Network is a public Solana cluster with a published Pyth product
// directory.
type Network struct {
	Name     string
	Endpoint string
	Mapping  account.Key
}

var networks = map[string]Network{
	NetworkMainnet: {
		Name:     NetworkMainnet,
		Endpoint: "https://api.mainnet-beta.solana.com",
		Mapping:  account.MustParseKey("AHtgzX45WTKfkPG53L6WYhGEXwQkN1BVknET3sVsLL8J"),
	},
	NetworkDevnet: {
		Name:     NetworkDevnet,
		Endpoint: "https://api.devnet.solana.com",
		Mapping:  account.MustParseKey("BmA9Z6FjioHJPpjT39QazZyhDRUdZy2ezwx4GiDdE2u2"),
	},
	NetworkTestnet: {
		Name:     NetworkTestnet,
		Endpoint: "https://api.testnet.solana.com",
		Mapping:  account.MustParseKey("AFmdnt9ng1uVxqCmqwQJDAYC5cKTkw8gJKSM5PnzuF6z"),
	},
}

// LookupNetwork returns the preset for name.
func LookupNetwork(name string) (Network, bool) {
	n, ok := networks[name]
	return n, ok
}

// ApplyNetworkDefaults fills the endpoint and mapping account from the
// network preset. Values set anywhere else take precedence.
func ApplyNetworkDefaults(v *viper.Viper, name string) {
	n, ok := networks[name]
	if !ok {
		return
	}
	v.SetDefault("rpc.endpoint", n.Endpoint)
	v.SetDefault("mapping", n.Mapping.String())
}
