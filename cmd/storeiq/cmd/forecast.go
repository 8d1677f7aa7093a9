package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func forecastCmd() *cobra.Command {
	forecastRoot := &cobra.Command{
		Use:   "forecast",
		Short: "Demand forecasts and purchase predictions",
	}

	forecastRoot.AddCommand(
		forecastDemandCmd(),
		forecastNextCmd(),
		forecastInsightsCmd(),
	)

	return forecastRoot
}

func forecastDemandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demand <product_id>",
		Short: "Project demand for a product",
		Args:  cobra.ExactArgs(1),
		Example: `  storeiq forecast demand prod-123
  storeiq forecast demand prod-123 --output json`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			df, err := c.DemandForecast(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(df)
			}
			return printDemandForecast(df)
		},
	}
}

func forecastNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "next <user_id>",
		Short:   "Predict a user's next purchase",
		Args:    cobra.ExactArgs(1),
		Example: `  storeiq forecast next user-42`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			np, err := c.NextPurchase(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(np)
			}
			return printNextPurchase(np)
		},
	}
}

func forecastInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "insights <user_id>",
		Short:   "Show a user's preferences and churn risk",
		Args:    cobra.ExactArgs(1),
		Example: `  storeiq forecast insights user-42`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			insights, err := c.GetUserInsights(context.Background(), args[0])
			if err != nil {
				return err
			}
			// The posterior and churn trace read better as JSON.
			return outputJSON(insights)
		},
	}
}
