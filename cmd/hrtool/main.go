package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hrtool/internal/amqp"
	"hrtool/internal/backend"
	"hrtool/internal/cache"
	"hrtool/internal/charts"
	"hrtool/internal/cli"
	"hrtool/internal/dataset"
	apphttp "hrtool/internal/http"
	"hrtool/internal/log"
	"hrtool/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize dataset backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Close()

	// Change notifications are optional; without AMQP the mirror worker
	// only picks changes up on its periodic resync.
	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("AMQP publisher enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	dashboards := cache.NewLRUCache[charts.Dashboard](cfg.CacheSize, cfg.CacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(dashboards)
	cacheManager.StartCleanup(cfg.CacheTTL)

	svc := services.NewEmployeeService(dataset.NewStore(result.Backend), publisher, dashboards, logger)

	srv, err := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		PreviewRows:     cfg.PreviewRows,
		UploadLimit:     cfg.UploadLimitBytes(),
		RateLimit:       cfg.RateLimit,
		TrustedProxies:  cfg.TrustedProxies,
		DatasetLocation: datasetLocation(cfg.DataBackend, cfg.DataFile, cfg.SQLiteDBPath),
		Logger:          logger,
	})
	if err != nil {
		logger.Error("Failed to create HTTP server", "error", err)
		os.Exit(1)
	}

	// Configure server timeouts and limits
	srv.ReadTimeout = 60 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
	})

	logger.Info("Starting hrtool server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// datasetLocation names where uploads land, as shown to the user.
func datasetLocation(backendType, dataFile, sqlitePath string) string {
	switch backendType {
	case "csv":
		return filepath.ToSlash(filepath.Clean(dataFile))
	case "sqlite":
		return "SQLite database " + filepath.ToSlash(filepath.Clean(sqlitePath))
	case "mysql":
		return "the MySQL database"
	case "sheets":
		return "the Google spreadsheet"
	default:
		return "memory"
	}
}
