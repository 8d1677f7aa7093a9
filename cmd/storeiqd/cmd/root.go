// Package cmd implements the storeiqd server commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storeiqd",
	Short: "Product recommendation and analytics engine",
	Long: "An API-first engine that computes product similarity, mines " +
		"frequently-bought-together rules, scores sentiment, ranks products " +
		"with fuzzy logic, and forecasts demand over a product catalog.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
