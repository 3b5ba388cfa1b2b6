package cli

import (
	"errors"
	"strings"

	"github.com/LeJamon/goPyth/pkg/traverse"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	productsFromSnapshot bool
	productsSymbol       string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List every product and its prices",
	Long: `Walk the product directory from the first mapping account and print each
product with each of its price accounts. Accounts that fail to load or decode
are reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runProducts,
}

func init() {
	productsCmd.Flags().BoolVar(&productsFromSnapshot, "snapshot", false, "read accounts from the snapshot store instead of RPC")
	productsCmd.Flags().StringVar(&productsSymbol, "symbol", "", "only print products whose symbol contains this text (case-insensitive)")
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	src, err := a.openSource(ctx, cmd, productsFromSnapshot)
	if err != nil {
		return err
	}
	defer src.close()

	filter := strings.ToLower(productsSymbol)
	printed, skipped := 0, 0
	for entry, err := range traverse.Products(ctx, src.loader, src.root, a.walkOptions()...) {
		if err != nil {
			var itemErr *traverse.ItemError
			if errors.As(err, &itemErr) && itemErr.Stage != traverse.StageMapping {
				skipped++
				continue
			}
			return err
		}
		if filter != "" && !strings.Contains(strings.ToLower(entry.Product.Symbol()), filter) {
			continue
		}
		if err := a.out.print(newEntryView(entry)); err != nil {
			return err
		}
		printed++
	}

	a.logger.Info("Walk finished", zap.Int("printed", printed), zap.Int("skipped", skipped))
	return nil
}
