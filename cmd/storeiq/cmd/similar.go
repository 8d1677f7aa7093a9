package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func similarCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "similar <product_id>",
		Short: "List products similar to a product",
		Args:  cobra.ExactArgs(1),
		Example: `  storeiq similar prod-123
  storeiq similar prod-123 --k 5 --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			rec, err := c.SimilarProducts(context.Background(), args[0], k)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rec)
			}
			return printRecommendation(rec)
		},
	}

	cmd.Flags().IntVar(&k, "k", 10, "maximum neighbors to return")
	return cmd
}

func recommendCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "recommend <user_id>",
		Short: "Recommend products for a user",
		Args:  cobra.ExactArgs(1),
		Example: `  storeiq recommend user-42
  storeiq recommend user-42 --k 20`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			rec, err := c.UserRecommendations(context.Background(), args[0], k)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rec)
			}
			return printRecommendation(rec)
		},
	}

	cmd.Flags().IntVar(&k, "k", 10, "maximum products to return")
	return cmd
}
