package cli

import (
	"fmt"
	"os"

	"github.com/agentx-labs/bulkren/internal/branding"
	"github.com/agentx-labs/bulkren/internal/config"
	"github.com/agentx-labs/bulkren/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` renames many files and folders at once. It writes every path under a
directory into a text manifest; edit the lines, save, and apply the manifest to
perform the renames.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		settings := config.Current()

		logging.SetLevel(settings.LogLevel)
		if err := logging.Init(settings.LogFile); err != nil {
			// Fall back to stderr so diagnostics are not lost.
			logging.InitWriter(os.Stderr)
			logging.Get().Warn("log file unavailable", "error", err)
		}
		logging.Get().Debug("command started", "command", cmd.CommandPath(), "args", args)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		logging.Get().Error("command failed", "error", err)
		logging.Close()
	}
	return err
}

// versionString is the one-line build description.
func versionString() string {
	return fmt.Sprintf("%s version %s (commit: %s, built: %s)", branding.CLIName(), buildVersion, buildCommit, buildDate)
}
