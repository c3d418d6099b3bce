// Package cli provides the command-line interface for proctor.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/core/ports/driving"
	"github.com/canopy-labs/proctor-cli/internal/logger"
)

// version is the proctor version, overridable at build time.
var version = "0.1.0-dev"

// verbose enables debug logging across all commands.
var verbose bool

// Services aggregates the core services the CLI commands depend on.
// main wires concrete implementations in before Execute.
type Services struct {
	Procedure driving.ProcedureService
	Builder   driving.BuilderService
	Executor  driving.ExecutorService

	// Uploader stores photo blobs. Optional.
	Uploader driven.Uploader

	// TemplatesDir is where JSON templates are exported and watched.
	TemplatesDir string
}

// services holds the injected service set.
var services *Services

// SetServices injects the service set used by the commands.
func SetServices(s *Services) {
	services = s
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "proctor",
	Short: "Build and run maintenance procedures",
	Long: `Proctor is a maintenance procedure toolkit for the terminal.

Define procedures as ordered lists of typed fields, run them against
work orders, and capture answers including photos and signatures.

Run without arguments to launch the interactive terminal UI.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
