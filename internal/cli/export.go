package cli

import (
	"github.com/LeJamon/goPyth/internal/export"
	"github.com/LeJamon/goPyth/pkg/traverse"
	"github.com/spf13/cobra"
)

var (
	exportFromSnapshot bool
	exportDriver       string
	exportDSN          string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the product directory into a SQL database",
	Long: `Walk the product directory and upsert products, attributes, prices and
publisher components into SQLite or PostgreSQL. Running it again refreshes
the rows in place.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportFromSnapshot, "snapshot", false, "read accounts from the snapshot store instead of RPC")
	exportCmd.Flags().StringVar(&exportDriver, "driver", "", "database driver: sqlite or postgres (overrides config)")
	exportCmd.Flags().StringVar(&exportDSN, "dsn", "", "database connection string (overrides config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := export.Config{Driver: a.cfg.Export.Driver, DSN: a.cfg.Export.DSN}
	if cmd.Flags().Changed("driver") {
		cfg.Driver = exportDriver
	}
	if cmd.Flags().Changed("dsn") {
		cfg.DSN = exportDSN
	}

	ctx := cmd.Context()
	exporter, err := export.Open(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	defer exporter.Close()

	src, err := a.openSource(ctx, cmd, exportFromSnapshot)
	if err != nil {
		return err
	}
	defer src.close()

	stats, err := exporter.WriteAll(ctx, traverse.Products(ctx, src.loader, src.root, a.walkOptions()...))
	if err != nil {
		return err
	}
	return a.out.print(statsView{Products: stats.Products, Prices: stats.Prices, Skipped: stats.Skipped})
}
