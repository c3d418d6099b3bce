package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/watch"
	"github.com/canopy-labs/proctor-cli/internal/adapters/driving/tui"
	"github.com/canopy-labs/proctor-cli/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Proctor.

The TUI provides a visual interface for building procedures, running
them against work orders, and signing off completed forms.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Answer
  Esc      - Back / Cancel
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps the stack trace visible after the alternate
	// screen is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if services == nil {
		return errors.New("services not configured")
	}

	ports := tui.NewPorts(services.Procedure, services.Builder, services.Executor)
	ports.Uploader = services.Uploader

	app, err := tui.NewApp(ports, services.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// Import template files dropped into the templates directory while
	// the TUI is running.
	if services.TemplatesDir != "" {
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()

		watcher, werr := watch.NewWatcher(services.TemplatesDir)
		if werr != nil {
			logger.Warn("template watcher unavailable: %v", werr)
		} else {
			defer watcher.Close()
			go func() {
				if err := syncTemplates(watchCtx, watcher, nil); err != nil {
					logger.Warn("template sync stopped: %v", err)
				}
			}()
		}
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
