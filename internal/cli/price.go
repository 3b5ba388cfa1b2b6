package cli

import (
	"fmt"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/spf13/cobra"
)

var priceFromSnapshot bool

var priceCmd = &cobra.Command{
	Use:   "price <key>",
	Short: "Decode one price account",
	Long:  `Load a price account and print its aggregate, moving averages and active publisher components.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPrice,
}

func init() {
	priceCmd.Flags().BoolVar(&priceFromSnapshot, "snapshot", false, "read the account from the snapshot store instead of RPC")
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	key, err := parseKeyArg(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	src, err := a.openSource(ctx, cmd, priceFromSnapshot)
	if err != nil {
		return err
	}
	defer src.close()

	data, err := src.loader.Load(ctx, key)
	if err != nil {
		return err
	}
	p, err := account.ParsePrice(data)
	if err != nil {
		return fmt.Errorf("price account %s: %w", key, err)
	}
	return a.out.print(newPriceView(key, p))
}
