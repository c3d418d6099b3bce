package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a procedure as a JSON template",
	Long: `Exports a procedure as a JSON template suitable for sharing or
re-importing with 'proctor import'.

Writes to stdout unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write template to file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if services == nil {
		return errors.New("services not configured")
	}

	data, err := services.Procedure.Export(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("exporting procedure: %w", err)
	}

	if exportOutput == "" {
		cmd.Println(string(data))
		return nil
	}

	if err := os.WriteFile(exportOutput, data, 0600); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	cmd.Printf("Exported to %s\n", exportOutput)
	return nil
}
