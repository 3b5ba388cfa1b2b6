package config

import (
	"fmt"
	"slices"

	"github.com/LeJamon/goPyth/pkg/account"
	"go.uber.org/zap/zapcore"
)

var (
	validCommitments  = []string{"processed", "confirmed", "finalized"}
	validBackends     = []string{"pebble", "leveldb"}
	validCompressions = []string{"lz4", "none"}
	validDrivers      = []string{"sqlite", "postgres"}
	validEncodings    = []string{"json", "console"}
)

// ValidateConfig checks every section and resolves the mapping key.
func ValidateConfig(config *Config) error {
	if err := validateNetwork(config); err != nil {
		return fmt.Errorf("network validation failed: %w", err)
	}
	if err := config.RPC.Validate(); err != nil {
		return fmt.Errorf("rpc validation failed: %w", err)
	}
	if err := config.Traversal.Validate(); err != nil {
		return fmt.Errorf("traversal validation failed: %w", err)
	}
	if err := config.Store.Validate(); err != nil {
		return fmt.Errorf("store validation failed: %w", err)
	}
	if err := config.Export.Validate(); err != nil {
		return fmt.Errorf("export validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	return nil
}

func validateNetwork(config *Config) error {
	if _, ok := LookupNetwork(config.Network); !ok && config.Network != NetworkCustom {
		return fmt.Errorf("unknown network %q (valid options: mainnet, devnet, testnet, custom)", config.Network)
	}
	if config.Mapping == "" {
		return fmt.Errorf("mapping account is required for network %q", config.Network)
	}
	key, err := account.ParseKey(config.Mapping)
	if err != nil {
		return fmt.Errorf("invalid mapping account: %w", err)
	}
	config.mappingKey = key
	return nil
}

// Validate performs validation on the RPC configuration
func (r *RPCConfig) Validate() error {
	if r.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if !slices.Contains(validCommitments, r.Commitment) {
		return fmt.Errorf("invalid commitment: %s (valid options: processed, confirmed, finalized)", r.Commitment)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", r.Timeout)
	}
	if r.RPS < 0 {
		return fmt.Errorf("rps must be non-negative, got %g", r.RPS)
	}
	if r.RPS > 0 && r.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rps is set, got %d", r.Burst)
	}
	if r.Retry.MaxRetries < 1 {
		return fmt.Errorf("retry.max_retries must be at least 1, got %d", r.Retry.MaxRetries)
	}
	if r.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be at least 1, got %g", r.Retry.Multiplier)
	}
	if r.Retry.InitialDelay < 0 || r.Retry.MaxDelay < r.Retry.InitialDelay {
		return fmt.Errorf("retry delays must satisfy 0 <= initial_delay <= max_delay")
	}
	return nil
}

// Validate performs validation on the traversal limits
func (t *TraversalConfig) Validate() error {
	if t.MaxMappingHops < 1 {
		return fmt.Errorf("max_mapping_hops must be at least 1, got %d", t.MaxMappingHops)
	}
	if t.MaxPriceHops < 1 {
		return fmt.Errorf("max_price_hops must be at least 1, got %d", t.MaxPriceHops)
	}
	return nil
}

// Validate performs validation on the store configuration
func (s *StoreConfig) Validate() error {
	if !slices.Contains(validBackends, s.Backend) {
		return fmt.Errorf("invalid store backend: %s (valid options: pebble, leveldb)", s.Backend)
	}
	if s.Path == "" {
		return fmt.Errorf("store path is required")
	}
	if !slices.Contains(validCompressions, s.Compression) {
		return fmt.Errorf("invalid store compression: %s (valid options: lz4, none)", s.Compression)
	}
	return nil
}

// Validate performs validation on the export configuration
func (e *ExportConfig) Validate() error {
	if !slices.Contains(validDrivers, e.Driver) {
		return fmt.Errorf("invalid export driver: %s (valid options: sqlite, postgres)", e.Driver)
	}
	if e.DSN == "" {
		return fmt.Errorf("export dsn is required")
	}
	return nil
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}
	if !slices.Contains(validEncodings, l.Encoding) {
		return fmt.Errorf("invalid log encoding: %s (valid options: json, console)", l.Encoding)
	}
	return nil
}
