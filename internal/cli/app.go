package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goPyth/internal/config"
	"github.com/LeJamon/goPyth/internal/loader/rpcloader"
	"github.com/LeJamon/goPyth/internal/logging"
	"github.com/LeJamon/goPyth/internal/retry"
	"github.com/LeJamon/goPyth/internal/storage/snapshot"
	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/LeJamon/goPyth/pkg/traverse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the per-invocation state shared by the commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    *printer
}

// flagOverrides maps the global flags the user set onto config keys.
func flagOverrides(cmd *cobra.Command) map[string]any {
	overrides := map[string]any{}
	flags := []struct {
		name  string
		key   string
		value *string
	}{
		{"network", "network", &network},
		{"rpc", "rpc.endpoint", &rpcEndpoint},
		{"mapping", "mapping", &mappingKey},
		{"store", "store.path", &storePath},
		{"log-level", "log.level", &logLevel},
	}
	for _, f := range flags {
		if cmd.Flags().Changed(f.name) {
			overrides[f.key] = *f.value
		}
	}
	return overrides
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(configFile, flagOverrides(cmd))
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	out, err := newPrinter(cmd.OutOrStdout(), outputFormat)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, out: out}, nil
}

func (a *app) close() {
	a.out.flush()
	a.logger.Sync()
}

func (a *app) rpcLoader() *rpcloader.Loader {
	r := a.cfg.RPC
	return rpcloader.New(rpcloader.Config{
		Endpoint:   r.Endpoint,
		Commitment: r.Commitment,
		Timeout:    r.Timeout,
		RPS:        r.RPS,
		Burst:      r.Burst,
		Retry: retry.Config{
			MaxRetries:    r.Retry.MaxRetries,
			InitialDelay:  r.Retry.InitialDelay,
			MaxDelay:      r.Retry.MaxDelay,
			Multiplier:    r.Retry.Multiplier,
			JitterEnabled: r.Retry.Jitter,
		},
	}, a.logger)
}

func (a *app) openStore() (*snapshot.Store, error) {
	return snapshot.Open(snapshot.Config{
		Backend:     a.cfg.Store.Backend,
		Path:        a.cfg.Store.Path,
		Compression: a.cfg.Store.Compression,
	})
}

func (a *app) walkOptions() []traverse.Option {
	return []traverse.Option{
		traverse.WithLogger(a.logger),
		traverse.WithMaxMappingHops(a.cfg.Traversal.MaxMappingHops),
		traverse.WithMaxPriceHops(a.cfg.Traversal.MaxPriceHops),
	}
}

// source is where accounts are read from.
type source struct {
	loader traverse.Loader
	root   account.Key
	close  func() error
}

// openSource reads from the snapshot store when fromSnapshot is set and
// from the RPC node otherwise. A snapshot walks from the mapping account it
// was taken from unless --mapping is given.
func (a *app) openSource(ctx context.Context, cmd *cobra.Command, fromSnapshot bool) (*source, error) {
	if !fromSnapshot {
		l := a.rpcLoader()
		return &source{loader: l, root: a.cfg.MappingKey(), close: l.Close}, nil
	}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	root := a.cfg.MappingKey()
	if !cmd.Flags().Changed("mapping") {
		stored, err := store.Root(ctx)
		switch {
		case err == nil:
			root = stored
		case !errors.Is(err, snapshot.ErrNoRoot):
			store.Close()
			return nil, fmt.Errorf("read snapshot root: %w", err)
		}
	}
	return &source{loader: store, root: root, close: store.Close}, nil
}

func parseKeyArg(arg string) (account.Key, error) {
	k, err := account.ParseKey(arg)
	if err != nil {
		return account.Key{}, fmt.Errorf("invalid account key: %w", err)
	}
	return k, nil
}
