package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"hrtool/internal/amqp"
	"hrtool/internal/backend"
	"hrtool/internal/cache"
	"hrtool/internal/charts"
	"hrtool/internal/config"
	"hrtool/internal/dataset"
	"hrtool/internal/log"
	"hrtool/internal/services"
)

// app holds what every subcommand needs once the backend is open.
type app struct {
	cfg     *config.Config
	svc     *services.EmployeeService
	closers []func() error

	backendFlag  string
	dataFileFlag string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "hrctl",
		Short:        "Manage the HR dataset",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.backendFlag, "backend", "", "dataset backend (overrides DATA_BACKEND)")
	root.PersistentFlags().StringVar(&a.dataFileFlag, "data-file", "", "CSV dataset path (overrides DATA_FILE)")

	root.AddCommand(
		newSeedCmd(a),
		newImportCmd(a),
		newShowCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Keep command output clean; backends log at info.
	logger := log.New(log.Config{Level: slog.LevelWarn, Component: "hrctl"})

	cfg := config.Load()
	if a.backendFlag != "" {
		cfg.DataBackend = a.backendFlag
	}
	if a.dataFileFlag != "" {
		cfg.DataFile = a.dataFileFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.DataBackend, err)
	}
	a.closers = append(a.closers, result.Close)

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("connect to AMQP: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		publisher = client
	}

	dashboards := cache.NewLRUCache[charts.Dashboard](cfg.CacheSize, cfg.CacheTTL)
	a.svc = services.NewEmployeeService(dataset.NewStore(result.Backend), publisher, dashboards, logger)
	return nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
