package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/lmoretti/storeiq/pkg/types"
)

func strategyCmd() *cobra.Command {
	strategyRoot := &cobra.Command{
		Use:   "strategy",
		Short: "View or switch the active recommendation strategy",
	}

	strategyRoot.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the active strategy",
			RunE: func(_ *cobra.Command, _ []string) error {
				c := newClient()
				s, err := c.GetStrategy(context.Background())
				if err != nil {
					return err
				}
				fmt.Println(s)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <content_based|collaborative>",
			Short: "Switch the active strategy",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				c := newClient()
				if err := c.SetStrategy(context.Background(), domain.Strategy(args[0])); err != nil {
					return err
				}
				fmt.Println("Strategy set to", args[0])
				return nil
			},
		},
	)

	return strategyRoot
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [job]",
		Short: "Trigger a derived-artifact refresh",
		Long: "Triggers one refresh job (similarity_refresh, rule_mining,\n" +
			"sentiment_refresh, forecast_refresh) or all of them. Rate limited\n" +
			"server-side.",
		Args: cobra.MaximumNArgs(1),
		Example: `  storeiq refresh
  storeiq refresh similarity_refresh`,
		RunE: func(_ *cobra.Command, args []string) error {
			job := "all"
			if len(args) == 1 {
				job = args[0]
			}
			c := newClient()
			if err := c.TriggerRefresh(context.Background(), job); err != nil {
				return err
			}
			fmt.Println("Refresh completed:", job)
			return nil
		},
	}
}

func jobsCmd() *cobra.Command {
	var (
		job   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "View refresh job history",
		Example: `  storeiq jobs
  storeiq jobs --job similarity_refresh --limit 5`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			runs, err := c.ListJobs(context.Background(), job, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No job runs found.")
				return nil
			}
			return printJobRunsTable(runs)
		},
	}

	cmd.Flags().StringVar(&job, "job", "", "filter to one job name")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to return")
	return cmd
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show aggregate system state",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			state, err := c.GetSystemState(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(state)
			}
			return printSystemState(state)
		},
	}
}

func debugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Show the algorithm introspection report",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			report, err := c.GetDebugReport(context.Background())
			if err != nil {
				return err
			}
			// The nested report reads better as JSON.
			return outputJSON(report)
		},
	}
}
