package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/futig/partner-backend/internal/builder"
	"github.com/futig/partner-backend/internal/config"
	"github.com/spf13/cobra"
)

var (
	envName   string
	serverURL string
	stateDir  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partner-cli",
		Short: "Chat with Partner form client",
		Long: `Fill in the Chat with Partner form from the command line.

The last background, intimacy and tone are kept in the state directory and
reused when a flag is omitted.

Examples:
  # Ask for three suggestions
  partner-cli generate --background "周末约好的事，他又加班了" --intimacy 7 --tone 坚定

  # Submit again with the saved inputs
  partner-cli generate

  # Show the saved inputs
  partner-cli state`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envName, "env", "local", "Environment file to load (local, prod, or custom)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Suggestion server URL (overrides PARTNER_SERVER_URL)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory for the saved form state (overrides PARTNER_STATE_DIR)")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newStateCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// buildClient loads the client configuration and applies the persistent flags over it.
func buildClient(cmd *cobra.Command) (*builder.Client, error) {
	cfg, err := config.LoadClientConfig(envName)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("server") {
		cfg.ServerURL = serverURL
	}
	if cmd.Flags().Changed("state-dir") {
		cfg.StateDir = stateDir
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server URL must not be empty")
	}

	return builder.NewClient(cfg)
}
