package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

func rulesCmd() *cobra.Command {
	var (
		limit   int
		product string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List association rules",
		Example: `  storeiq rules
  storeiq rules --product prod-123
  storeiq rules --limit 100 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			ctx := context.Background()

			rules, err := listRules(ctx, c, product, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(rules)
			}
			if len(rules) == 0 {
				fmt.Println("No rules found.")
				return nil
			}
			return printRulesTable(rules)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rules to return")
	cmd.Flags().StringVar(&product, "product", "", "only rules with this product as antecedent")
	return cmd
}

func listRules(ctx context.Context, c ruleLister, product string, limit int) ([]domain.AssociationRule, error) {
	if product != "" {
		return c.ProductRules(ctx, product, limit)
	}
	return c.ListRules(ctx, limit)
}

type ruleLister interface {
	ListRules(ctx context.Context, limit int) ([]domain.AssociationRule, error)
	ProductRules(ctx context.Context, productID string, limit int) ([]domain.AssociationRule, error)
}
