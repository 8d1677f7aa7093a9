package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lmoretti/storeiq/internal/api/handlers"
	"github.com/lmoretti/storeiq/internal/api/middleware"
	"github.com/lmoretti/storeiq/internal/config"
	"github.com/lmoretti/storeiq/internal/engine"
	"github.com/lmoretti/storeiq/internal/store"
	"github.com/lmoretti/storeiq/pkg/logger"
)

var warmUp bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&warmUp, "warm-up", true, "run all refresh jobs before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	eng := engine.NewEngine(pg, cfg, engine.WithLogger(log))

	// The in-memory snapshots start empty after a restart; a warm-up
	// refresh repopulates them from the catalog before traffic arrives.
	if warmUp {
		log.Info("running warm-up refresh")
		if err := eng.RefreshAll(context.Background()); err != nil {
			log.Warn("warm-up refresh finished with errors", "error", err)
		}
	}

	sched, err := engine.NewScheduler(eng, cfg.Schedule, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(pg)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("storeiq API", "1.0.0"))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(pg))
	handlers.RegisterRecommendationRoutes(api, handlers.NewRecommendationsHandler(eng, pg))
	handlers.RegisterRuleRoutes(api, handlers.NewRulesHandler(pg))
	handlers.RegisterSentimentRoutes(api, handlers.NewSentimentHandler(pg))
	handlers.RegisterFuzzyRoutes(api, handlers.NewFuzzyHandler(eng))
	handlers.RegisterForecastRoutes(api, handlers.NewForecastsHandler(eng, pg))
	handlers.RegisterStrategyRoutes(api, handlers.NewStrategyHandler(eng))
	handlers.RegisterRefreshRoutes(api, handlers.NewRefreshHandler(eng))
	handlers.RegisterDebugRoutes(api, handlers.NewDebugHandler(eng))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(pg))
	handlers.RegisterSystemStateRoutes(api, handlers.NewSystemStateHandler(pg))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	stopCtx := sched.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
