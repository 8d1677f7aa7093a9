// Package cmd implements the storeiq CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/lmoretti/storeiq/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "storeiq",
		Short: "CLI client for the storeiq engine",
		Long: "storeiq is a command-line client for the storeiq API.\n" +
			"It lets you query recommendations, rules, sentiment, and forecasts,\n" +
			"switch strategies, and trigger refreshes from the terminal.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.storeiq.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(similarCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(rulesCmd())
	rootCmd.AddCommand(sentimentCmd())
	rootCmd.AddCommand(fuzzyCmd())
	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(strategyCmd())
	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(jobsCmd())
	rootCmd.AddCommand(stateCmd())
	rootCmd.AddCommand(debugCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".storeiq")
	}

	viper.SetEnvPrefix("STOREIQ")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
