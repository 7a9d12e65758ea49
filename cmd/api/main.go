package main

import (
	"log"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "phoneshop-pos",
		Short:         "Point-of-sale backend for a phone and accessories shop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "configuration file read before the environment")

	root.AddCommand(
		newServeCmd(&envFile),
		newMigrateCmd(&envFile),
		newReportCmd(&envFile),
	)
	return root
}
