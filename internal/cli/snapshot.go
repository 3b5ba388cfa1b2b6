package cli

import (
	"context"
	"errors"

	"github.com/LeJamon/goPyth/internal/storage/snapshot"
	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/LeJamon/goPyth/pkg/traverse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var snapshotBatchSize int

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the product directory into the local store",
	Long: `Walk the product directory over RPC and persist every account fetched along
the way, so that later commands can run with --snapshot.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVar(&snapshotBatchSize, "batch", 64, "accounts written per database batch")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	loader := a.rpcLoader()
	defer loader.Close()

	stats, err := takeSnapshot(cmd.Context(), loader, store, a.cfg.MappingKey(), max(snapshotBatchSize, 1), a.logger, a.walkOptions()...)
	if err != nil {
		return err
	}

	a.logger.Info("Snapshot written",
		zap.String("path", a.cfg.Store.Path),
		zap.Int("accounts", stats.accounts),
		zap.Int("skipped", stats.skipped))
	return nil
}

type snapshotStats struct {
	accounts int
	skipped  int
}

// takeSnapshot walks from root through loader while a second goroutine
// writes every loaded account into store in batches.
func takeSnapshot(ctx context.Context, loader traverse.Loader, store *snapshot.Store, root account.Key, batchSize int, logger *zap.Logger, opts ...traverse.Option) (snapshotStats, error) {
	var stats snapshotStats
	records := make(chan snapshot.Record, batchSize)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(records)
		recorder := snapshot.NewRecorder(loader, records)
		for _, err := range traverse.Products(gctx, recorder, root, opts...) {
			if err == nil {
				continue
			}
			var itemErr *traverse.ItemError
			if errors.As(err, &itemErr) && itemErr.Stage != traverse.StageMapping {
				stats.skipped++
				continue
			}
			return err
		}
		return nil
	})

	g.Go(func() error {
		batch := make([]snapshot.Record, 0, batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := store.PutBatch(gctx, batch); err != nil {
				return err
			}
			stats.accounts += len(batch)
			logger.Debug("Wrote snapshot batch", zap.Int("accounts", len(batch)))
			batch = batch[:0]
			return nil
		}

		for r := range records {
			batch = append(batch, r)
			if len(batch) == batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, store.SetRoot(ctx, root)
}
