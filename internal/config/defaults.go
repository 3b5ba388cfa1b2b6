package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets every default that does not depend on the network.
func setDefaults(v *viper.Viper) {
	v.SetDefault("network", NetworkMainnet)
	v.SetDefault("mapping", "")

	v.SetDefault("rpc.endpoint", "")

	v.SetDefault("rpc.commitment", "confirmed")
	v.SetDefault("rpc.timeout", 30*time.Second)
	v.SetDefault("rpc.rps", 8.0)
	v.SetDefault("rpc.burst", 4)
	v.SetDefault("rpc.retry.max_retries", 5)
	v.SetDefault("rpc.retry.initial_delay", 250*time.Millisecond)
	v.SetDefault("rpc.retry.max_delay", 10*time.Second)
	v.SetDefault("rpc.retry.multiplier", 2.0)
	v.SetDefault("rpc.retry.jitter", true)

	v.SetDefault("traversal.max_mapping_hops", 1024)
	v.SetDefault("traversal.max_price_hops", 64)

	v.SetDefault("store.backend", "pebble")
	v.SetDefault("store.path", "pyth-snapshot")
	v.SetDefault("store.compression", "lz4")

	v.SetDefault("export.driver", "sqlite")
	v.SetDefault("export.dsn", "pyth.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
}
