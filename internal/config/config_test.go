package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("", nil)
	require.NoError(t, err)

	mainnet, ok := LookupNetwork(NetworkMainnet)
	require.True(t, ok)

	assert.Equal(t, NetworkMainnet, config.Network)
	assert.Equal(t, mainnet.Endpoint, config.RPC.Endpoint)
	assert.Equal(t, mainnet.Mapping, config.MappingKey())
	assert.Equal(t, "confirmed", config.RPC.Commitment)
	assert.Equal(t, 30*time.Second, config.RPC.Timeout)
	assert.Equal(t, 5, config.RPC.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, config.RPC.Retry.InitialDelay)
	assert.Equal(t, 1024, config.Traversal.MaxMappingHops)
	assert.Equal(t, 64, config.Traversal.MaxPriceHops)
	assert.Equal(t, "pebble", config.Store.Backend)
	assert.Equal(t, "lz4", config.Store.Compression)
	assert.Equal(t, "sqlite", config.Export.Driver)
	assert.Equal(t, "info", config.Log.Level)
	assert.Empty(t, config.ConfigPath())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, "pyth.toml", `
network = "devnet"

[rpc]
commitment = "finalized"
timeout = "5s"
rps = 2.5

[rpc.retry]
max_retries = 3

[store]
backend = "leveldb"
path = "/tmp/pyth"
compression = "none"

[log]
level = "debug"
encoding = "json"
`)

	config, err := LoadConfig(path, nil)
	require.NoError(t, err)

	devnet, _ := LookupNetwork(NetworkDevnet)
	assert.Equal(t, NetworkDevnet, config.Network)
	assert.Equal(t, devnet.Endpoint, config.RPC.Endpoint)
	assert.Equal(t, devnet.Mapping, config.MappingKey())
	assert.Equal(t, "finalized", config.RPC.Commitment)
	assert.Equal(t, 5*time.Second, config.RPC.Timeout)
	assert.Equal(t, 2.5, config.RPC.RPS)
	assert.Equal(t, 3, config.RPC.Retry.MaxRetries)
	assert.Equal(t, "leveldb", config.Store.Backend)
	assert.Equal(t, "/tmp/pyth", config.Store.Path)
	assert.Equal(t, "none", config.Store.Compression)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, path, config.ConfigPath())
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "pyth.yaml", `
network: testnet
traversal:
  max_price_hops: 8
`)

	config, err := LoadConfig(path, nil)
	require.NoError(t, err)

	testnet, _ := LookupNetwork(NetworkTestnet)
	assert.Equal(t, testnet.Mapping, config.MappingKey())
	assert.Equal(t, 8, config.Traversal.MaxPriceHops)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PYTH_NETWORK", "testnet")
	t.Setenv("PYTH_RPC_ENDPOINT", "http://localhost:8899")
	t.Setenv("PYTH_STORE_COMPRESSION", "none")

	config, err := LoadConfig("", nil)
	require.NoError(t, err)

	testnet, _ := LookupNetwork(NetworkTestnet)
	assert.Equal(t, "http://localhost:8899", config.RPC.Endpoint)
	assert.Equal(t, testnet.Mapping, config.MappingKey())
	assert.Equal(t, "none", config.Store.Compression)
}

func TestLoadConfig_Overrides(t *testing.T) {
	custom := account.Key{1, 2, 3}

	config, err := LoadConfig("", map[string]any{
		"network":      NetworkCustom,
		"rpc.endpoint": "http://localhost:8899",
		"mapping":      custom.String(),
		"store.path":   "elsewhere",
	})
	require.NoError(t, err)

	assert.Equal(t, custom, config.MappingKey())
	assert.Equal(t, "http://localhost:8899", config.RPC.Endpoint)
	assert.Equal(t, "elsewhere", config.Store.Path)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{"unknown network", map[string]any{"network": "moon"}, "unknown network"},
		{"custom without mapping", map[string]any{"network": NetworkCustom, "rpc.endpoint": "http://x"}, "mapping account is required"},
		{"bad mapping", map[string]any{"mapping": "not-base58!"}, "invalid mapping account"},
		{"bad commitment", map[string]any{"rpc.commitment": "recent"}, "invalid commitment"},
		{"negative rps", map[string]any{"rpc.rps": -1}, "rps must be non-negative"},
		{"zero burst", map[string]any{"rpc.burst": 0}, "burst must be at least 1"},
		{"zero hops", map[string]any{"traversal.max_mapping_hops": 0}, "max_mapping_hops"},
		{"bad backend", map[string]any{"store.backend": "rocksdb"}, "invalid store backend"},
		{"bad compression", map[string]any{"store.compression": "zstd"}, "invalid store compression"},
		{"bad driver", map[string]any{"export.driver": "mysql"}, "invalid export driver"},
		{"bad log level", map[string]any{"log.level": "loud"}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig("", tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestLookupNetwork_Unknown(t *testing.T) {
	_, ok := LookupNetwork("moon")
	assert.False(t, ok)
}
