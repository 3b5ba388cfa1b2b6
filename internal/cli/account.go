package cli

import (
	"fmt"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/spf13/cobra"
)

var accountFromSnapshot bool

var accountCmd = &cobra.Command{
	Use:   "account <key>",
	Short: "Decode any Pyth account by its header",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccount,
}

func init() {
	accountCmd.Flags().BoolVar(&accountFromSnapshot, "snapshot", false, "read the account from the snapshot store instead of RPC")
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
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
	src, err := a.openSource(ctx, cmd, accountFromSnapshot)
	if err != nil {
		return err
	}
	defer src.close()

	data, err := src.loader.Load(ctx, key)
	if err != nil {
		return err
	}
	acc, err := account.Parse(data)
	if err != nil {
		return fmt.Errorf("account %s: %w", key, err)
	}

	switch acc := acc.(type) {
	case *account.Mapping:
		return a.out.print(newMappingView(key, acc))
	case *account.Product:
		return a.out.print(newProductView(key, acc))
	case *account.Price:
		return a.out.print(newPriceView(key, acc))
	default:
		return fmt.Errorf("account %s: unhandled type %s", key, acc.AccountType())
	}
}
