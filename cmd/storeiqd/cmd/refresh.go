package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lmoretti/storeiq/internal/config"
	"github.com/lmoretti/storeiq/internal/engine"
	"github.com/lmoretti/storeiq/internal/store"
	"github.com/lmoretti/storeiq/pkg/logger"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [job]",
	Short: "Run a refresh job once and exit",
	Long: "Runs one derived-artifact refresh job (similarity_refresh, rule_mining,\n" +
		"sentiment_refresh, forecast_refresh) or all of them, then exits.\n" +
		"Useful for initial seeding and cron-less deployments.",
	Args: cobra.MaximumNArgs(1),
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	eng := engine.NewEngine(pg, cfg, engine.WithLogger(log))

	job := "all"
	if len(args) == 1 {
		job = args[0]
	}

	return eng.RunRefresh(ctx, job)
}
