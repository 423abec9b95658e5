package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/config"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/persistence"
	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/router"
	"github.com/Sontome/web-b2b-thuhongtour/internal/interface/faresearch"
	repo "github.com/Sontome/web-b2b-thuhongtour/internal/interface/repository"
	"github.com/Sontome/web-b2b-thuhongtour/internal/usecase"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/metrics"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flightID string

	cmd := &cobra.Command{
		Use:   "check-prices",
		Short: "Run one fare monitor sweep and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flightID)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&flightID, "flight-id", "", "check only this monitored flight, ignoring its schedule")

	return cmd
}

func run(ctx context.Context, flightID string) error {
	log := logger.NewLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	airlineRouter := router.NewAirlineRouter(log)
	airlineRouter.Register(faresearch.NewClient(cfg.FareAPIBaseURL, cfg.FareSearchTimeout, faresearch.VietJetConfig(), log))
	airlineRouter.Register(faresearch.NewClient(cfg.FareAPIBaseURL, cfg.FareSearchTimeout, faresearch.VietnamAirlinesConfig(), log))

	monitor := usecase.NewPriceMonitor(
		repo.NewGormMonitoredFlightRepository(gormDB),
		airlineRouter,
		metrics.NewMetrics("fare_monitor", prometheus.NewRegistry()),
		log,
		cfg.SweepConcurrency,
		cfg.FareSearchTimeout,
	)

	if cfg.SweepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SweepTimeout)
		defer cancel()
	}

	result, err := monitor.RunSweep(ctx, flightID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
