// Command proctor is a terminal toolkit for building and running
// maintenance procedures.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/config/file"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/storage/sqlite"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/upload"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/cli"
	"github.com/canopy-labs/proctor-cli/internal/core/services"
	"github.com/canopy-labs/proctor-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".proctor")

	config, err := file.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := config.GetString("storage.data_dir")
	if dataDir == "" {
		dataDir = filepath.Join(baseDir, "data")
	}
	templatesDir := config.GetString("templates.dir")
	if templatesDir == "" {
		templatesDir = filepath.Join(baseDir, "templates")
	}
	uploadsDir := config.GetString("uploads.dir")
	if uploadsDir == "" {
		uploadsDir = filepath.Join(baseDir, "uploads")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()
	logger.Debug("opened store at %s", store.Path())

	uploader, err := upload.NewLocalUploader(uploadsDir)
	if err != nil {
		return fmt.Errorf("preparing uploads directory: %w", err)
	}

	procedureStore := store.ProcedureStore()

	cli.SetServices(&cli.Services{
		Procedure:    services.NewProcedureService(procedureStore),
		Builder:      services.NewBuilderService(procedureStore),
		Executor:     services.NewExecutionService(procedureStore, store.ExecutionStore()),
		Uploader:     uploader,
		TemplatesDir: templatesDir,
	})

	return cli.Execute()
}
