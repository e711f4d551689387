package main

import (
	"os"

	"go.uber.org/zap"

	warehouseapp "github.com/goncaloinunes/warehouse-manager/internal/application/warehouse"
	"github.com/goncaloinunes/warehouse-manager/internal/infrastructure/config"
	"github.com/goncaloinunes/warehouse-manager/internal/infrastructure/logger"
	"github.com/goncaloinunes/warehouse-manager/internal/infrastructure/persistence"
	"github.com/goncaloinunes/warehouse-manager/internal/interfaces/cli"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting warehouse manager",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env))

	store := persistence.NewSnapshotStore(log, logger.MapGormLogLevel(cfg.Store.LogLevel))
	service := warehouseapp.NewService(store, log)

	if cfg.Store.File != "" {
		if err := service.Load(cfg.Store.File); err != nil {
			log.Fatal("Failed to load warehouse file",
				zap.String("path", cfg.Store.File),
				zap.Error(err))
		}
	} else if cfg.Import.File != "" {
		if err := service.ImportFile(cfg.Import.File); err != nil {
			log.Fatal("Failed to import bootstrap file",
				zap.String("path", cfg.Import.File),
				zap.Error(err))
		}
	}

	if err := cli.New(service, os.Stdin, os.Stdout, log).Run(); err != nil {
		log.Fatal("Command loop failed", zap.Error(err))
	}
	log.Info("Shutting down")
}
