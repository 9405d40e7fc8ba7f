package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fulfillment",
	Short: "Match open orders to restaurants and rank them by distance",
	Long: `
fulfillment finds, for every open order, the restaurants whose menu covers all
of the ordered products and annotates each with the distance from the
restaurant to the delivery address.

Configuration is read from the environment (DATABASE_URL, GEOCODER_API_KEY,
KAFKA_ENABLED, ...).
`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(newServeCmd(), newPlanCmd())
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}
