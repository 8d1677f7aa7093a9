package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	productsRoot.AddCommand(
		productsListCmd(),
		productsGetCmd(),
	)

	return productsRoot
}

func productsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		Example: `  storeiq products list
  storeiq products list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			products, err := c.ListProducts(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(products)
			}
			if len(products) == 0 {
				fmt.Println("No products found.")
				return nil
			}
			return printProductsTable(products)
		},
	}
}

func productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <product_id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			p, err := c.GetProduct(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(p)
			}
			return printProductDetail(p)
		},
	}
}
