package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"hrtool/internal/amqp"
	"hrtool/internal/backend"
	"hrtool/internal/cli"
	"hrtool/internal/dataset"
	"hrtool/internal/log"
	"hrtool/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting hrtool-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration validation failed", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)

	primaryCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	primary, err := factory.CreateBackend(context.Background(), primaryCfg)
	if err != nil {
		logger.Error("Failed to initialize primary backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer primary.Close()

	mirror, err := factory.CreateBackend(context.Background(), backend.MirrorConfig(cfg))
	if err != nil {
		logger.Error("Failed to initialize Google Sheets mirror", "error", err)
		os.Exit(1)
	}
	defer mirror.Close()
	logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(dataset.NewStore(primary.Backend), mirror.Backend)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Catch up on anything saved while the worker was down.
	logger.Info("Performing startup mirror")
	if err := mirrorWorker.Mirror(ctx); err != nil {
		logger.Error("Startup mirror failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeDatasetSaved(gctx, mirrorWorker.HandleSavedMessage)
	})
	g.Go(func() error {
		return mirrorWorker.RunPeriodic(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("hrtool-worker stopped")
}
