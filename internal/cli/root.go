package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile   string
	network      string
	rpcEndpoint  string
	mappingKey   string
	storePath    string
	logLevel     string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pyth",
	Short: "Decode Pyth oracle accounts on Solana",
	Long: `pyth reads the Pyth product directory from a Solana RPC node or a local
snapshot and decodes mapping, product and price accounts without copying
their data.`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (toml, yaml or json)")
	rootCmd.PersistentFlags().StringVar(&network, "network", "", "network preset: mainnet, devnet, testnet or custom")
	rootCmd.PersistentFlags().StringVar(&rpcEndpoint, "rpc", "", "Solana JSON-RPC endpoint")
	rootCmd.PersistentFlags().StringVar(&mappingKey, "mapping", "", "first mapping account of the product directory")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "snapshot database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", formatText, "output format: text, json or msgpack")
}
