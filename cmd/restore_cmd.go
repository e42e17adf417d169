package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [file]",
	Short: "Restore one saved FlexReport as a new report",
	Long: `Reads a report definition saved by the backup command and creates
it as a new FlexReport. The new report gets a suffix appended to its
name so it never collides with the original; absolute time-range bounds
and notification settings are not carried over.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var file string
		if len(args) == 1 {
			file = args[0]
		} else {
			fmt.Fprint(os.Stderr, "Backup file to restore: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && strings.TrimSpace(line) == "" {
				return fmt.Errorf("read backup filename: %w", err)
			}
			file = strings.TrimSpace(line)
		}
		if file == "" {
			return fmt.Errorf("no backup file given")
		}

		op, _, err := newOperator(cmd.Context())
		if err != nil {
			return err
		}
		newID, err := op.Restore(cmd.Context(), file)
		if err != nil {
			return err
		}
		fmt.Printf("New report id: %s\n", newID)
		return nil
	},
}
