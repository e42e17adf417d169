package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudhealth-ps/flexreports-backup/internal/cloudhealth"
	"github.com/cloudhealth-ps/flexreports-backup/internal/config"
	"github.com/cloudhealth-ps/flexreports-backup/internal/credentials"
	"github.com/cloudhealth-ps/flexreports-backup/internal/logger"
	"github.com/cloudhealth-ps/flexreports-backup/internal/operations"
)

var (
	// configFile is the optional path to the YAML configuration.
	configFile string
	// apiKeyFlag is the explicit API key override; highest precedence.
	apiKeyFlag string

	rootCmd = &cobra.Command{
		Use:   "flexreports",
		Short: "Backup, restore, and list CloudHealth FlexReports",
		Long: `flexreports talks to the CloudHealth GraphQL API to back up every
FlexReport definition into a timestamped zip archive, restore a single
saved definition as a new report, or list all reports as CSV.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command. Any fatal failure exits with code 1.
func Execute() {
	if _, err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		logger.Cleanup()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configFile, "config", "c", "", "path to YAML config file (optional)")
	rootCmd.PersistentFlags().
		StringVar(&apiKeyFlag, "api-key", "", "CloudHealth API key (overrides environment and Vault)")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(listCmd)
}

// newOperator loads config, resolves credentials, authenticates, and
// returns an Operator over the live session. Shared by every
// subcommand.
func newOperator(ctx context.Context) (*operations.Operator, config.Config, error) {
	var cfg config.Config
	if err := cfg.Load(configFile); err != nil {
		return nil, cfg, err
	}

	apiKey, err := credentials.Resolve(ctx, cfg, apiKeyFlag)
	if err != nil {
		return nil, cfg, fmt.Errorf("resolve API key: %w", err)
	}

	fmt.Println("Authenticating...")
	session, err := cloudhealth.Login(ctx, cfg.API.Endpoint, apiKey,
		cloudhealth.WithTimeout(cfg.API.Timeout),
		cloudhealth.WithFetchTimeout(cfg.API.FetchTimeout),
	)
	if err != nil {
		return nil, cfg, err
	}
	fmt.Println("Authentication successful.")

	return operations.NewOperator(cfg, session), cfg, nil
}
