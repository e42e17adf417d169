package cmd

import (
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up all FlexReports into a timestamped zip archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		op, _, err := newOperator(cmd.Context())
		if err != nil {
			return err
		}
		_, err = op.Backup(cmd.Context())
		return err
	},
}
