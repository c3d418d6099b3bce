package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/canopy-labs/proctor-cli/internal/adapters/driven/watch"
	"github.com/canopy-labs/proctor-cli/internal/core/domain"
	"github.com/canopy-labs/proctor-cli/internal/logger"
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the templates directory and import changes",
	Long: `Watch the templates directory for JSON template files and import
them into the procedure library as they appear or change.

Runs until interrupted. Deleted template files are ignored; removing a
file never removes the imported procedure.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if services == nil {
		return errors.New("services not configured")
	}

	watcher, err := watch.NewWatcher(services.TemplatesDir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	cmd.Printf("Watching %s for templates (ctrl+c to stop)\n", watcher.Dir())

	return syncTemplates(cmd.Context(), watcher, func(p *domain.Procedure) {
		cmd.Printf("Imported %q (%s)\n", p.Name, p.ID)
	})
}

// syncTemplates imports each created or updated template file until the
// context is cancelled. onImport may be nil.
func syncTemplates(ctx context.Context, watcher *watch.Watcher, onImport func(*domain.Procedure)) error {
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	for change := range changes {
		if change.Type == domain.ChangeDeleted {
			continue
		}

		data, err := os.ReadFile(change.Path)
		if err != nil {
			logger.Warn("reading template %s: %v", change.Path, err)
			continue
		}

		p, err := services.Procedure.Import(ctx, data)
		if err != nil {
			logger.Warn("importing template %s: %v", change.Path, err)
			continue
		}

		logger.Debug("imported template %s as %s", change.Path, p.ID)
		if onImport != nil {
			onImport(p)
		}
	}

	return nil
}
