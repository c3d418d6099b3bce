package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a JSON template into the library",
	Long: `Imports a JSON template file into the procedure library. A template
that carries an id updates the matching procedure; one without gets a
fresh identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if services == nil {
		return errors.New("services not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	p, err := services.Procedure.Import(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("importing template: %w", err)
	}

	cmd.Printf("Imported %q (%s)\n", p.Name, p.ID)
	return nil
}
