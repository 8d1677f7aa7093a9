package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func sentimentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sentiment <product_id>",
		Short: "Show a product's sentiment breakdown",
		Args:  cobra.ExactArgs(1),
		Example: `  storeiq sentiment prod-123
  storeiq sentiment prod-123 --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			rec, err := c.GetSentiment(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rec)
			}
			return printSentimentDetail(rec)
		},
	}
}

func fuzzyCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "fuzzy <user_id>",
		Short: "Fuzzy-logic recommendations for a user",
		Args:  cobra.ExactArgs(1),
		Example: `  storeiq fuzzy user-42
  storeiq fuzzy user-42 --k 5 --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			results, err := c.FuzzyRecommendations(context.Background(), args[0], k)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(results)
			}
			return printFuzzyTable(results)
		},
	}

	cmd.Flags().IntVar(&k, "k", 10, "maximum products to return")
	return cmd
}
