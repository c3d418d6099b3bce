package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canopy-labs/proctor-cli/internal/core/domain"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List procedures in the library",
	Long:  `Lists all procedures in the library with their field counts.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if services == nil {
		return errors.New("services not configured")
	}

	procedures, err := services.Procedure.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing procedures: %w", err)
	}

	if listJSON {
		return outputListJSON(cmd, procedures)
	}

	return outputListTable(cmd, procedures)
}

func outputListJSON(cmd *cobra.Command, procedures []domain.Procedure) error {
	data, err := json.MarshalIndent(procedures, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal procedures: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputListTable(cmd *cobra.Command, procedures []domain.Procedure) error {
	if len(procedures) == 0 {
		cmd.Println("No procedures yet. Run 'proctor tui' to create one.")
		return nil
	}

	cmd.Println("Procedures:")
	cmd.Println()
	for i := range procedures {
		p := &procedures[i]
		cmd.Printf("  %s  %s (%d fields)\n", p.ID, p.Name, len(p.Fields))
		if p.Description != "" {
			cmd.Printf("      %s\n", p.Description)
		}
	}

	return nil
}
