// Package config loads the pyth CLI configuration.
package config

import (
	"time"

	"github.com/LeJamon/goPyth/pkg/account"
)

// Config is the complete CLI configuration.
type Config struct {
	// Network selects endpoint and mapping presets: mainnet, devnet,
	// testnet or custom.
	Network string `toml:"network" mapstructure:"network"`

	// Mapping is the base58 key of the first mapping account.
	Mapping string `toml:"mapping" mapstructure:"mapping"`

	RPC       RPCConfig       `toml:"rpc" mapstructure:"rpc"`
	Traversal TraversalConfig `toml:"traversal" mapstructure:"traversal"`
	Store     StoreConfig     `toml:"store" mapstructure:"store"`
	Export    ExportConfig    `toml:"export" mapstructure:"export"`
	Log       LogConfig       `toml:"log" mapstructure:"log"`

	mappingKey account.Key
	configPath string
}

// RPCConfig represents the [rpc] section
type RPCConfig struct {
	Endpoint   string        `toml:"endpoint" mapstructure:"endpoint"`
	Commitment string        `toml:"commitment" mapstructure:"commitment"`
	Timeout    time.Duration `toml:"timeout" mapstructure:"timeout"`
	// RPS is the steady request rate; 0 disables pacing.
	RPS   float64     `toml:"rps" mapstructure:"rps"`
	Burst int         `toml:"burst" mapstructure:"burst"`
	Retry RetryConfig `toml:"retry" mapstructure:"retry"`
}

// RetryConfig represents the [rpc.retry] section
type RetryConfig struct {
	MaxRetries   int           `toml:"max_retries" mapstructure:"max_retries"`
	InitialDelay time.Duration `toml:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay     time.Duration `toml:"max_delay" mapstructure:"max_delay"`
	Multiplier   float64       `toml:"multiplier" mapstructure:"multiplier"`
	Jitter       bool          `toml:"jitter" mapstructure:"jitter"`
}

// TraversalConfig represents the [traversal] section
type TraversalConfig struct {
	MaxMappingHops int `toml:"max_mapping_hops" mapstructure:"max_mapping_hops"`
	MaxPriceHops   int `toml:"max_price_hops" mapstructure:"max_price_hops"`
}

// StoreConfig represents the [store] section
// Configures the local snapshot database
type StoreConfig struct {
	Backend     string `toml:"backend" mapstructure:"backend"`
	Path        string `toml:"path" mapstructure:"path"`
	Compression string `toml:"compression" mapstructure:"compression"`
}

// ExportConfig represents the [export] section
type ExportConfig struct {
	Driver string `toml:"driver" mapstructure:"driver"`
	DSN    string `toml:"dsn" mapstructure:"dsn"`
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level    string `toml:"level" mapstructure:"level"`
	Encoding string `toml:"encoding" mapstructure:"encoding"`
}

// MappingKey returns the parsed first mapping account. It is only set on a
// Config returned by LoadConfig.
func (c *Config) MappingKey() account.Key {
	return c.mappingKey
}

// ConfigPath returns the file the configuration was read from, if any.
func (c *Config) ConfigPath() string {
	return c.configPath
}
