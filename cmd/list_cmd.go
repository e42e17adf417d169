package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloudhealth-ps/flexreports-backup/internal/operations"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every FlexReport across all datasets as CSV",
	Long: `Enumerates all datasets and writes every report as a header-less CSV
row (name, id, createdBy, dataset_name) sorted by name, to ` +
		operations.ListFilename + ` in the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		op, cfg, err := newOperator(cmd.Context())
		if err != nil {
			return err
		}

		reports, err := op.ListReports(cmd.Context())
		if err != nil {
			return err
		}

		path := filepath.Join(cfg.Backup.OutputDirectory, operations.ListFilename)
		if err := operations.WriteCSVFile(path, reports); err != nil {
			return err
		}
		fmt.Printf("Wrote %d report(s) to %s\n", len(reports), path)
		return nil
	},
}
