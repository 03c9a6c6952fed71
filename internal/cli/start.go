package cli

import (
	"fmt"

	"github.com/agentx-labs/bulkren/internal/branding"
	"github.com/agentx-labs/bulkren/internal/config"
	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/spf13/cobra"
)

var startNoOpen bool

func init() {
	startCmd.Flags().BoolVar(&startNoOpen, "no-open", false, "Write the manifest without opening an editor")
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start [dir]",
	Short: "Start a rename session for a directory",
	Long: `Snapshot every file and folder under dir (default: the working directory),
write them to a manifest file inside dir, and open it in your editor.

Edit the paths in place, keeping one line per entry, then run 'apply'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var opener editor.Opener = editor.Nop{}
		if !startNoOpen {
			opener = editor.New(config.Current().Editor)
		}

		s, err := newManager(opener).Start(rootArg(args))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		st := newOutputStyles(out)
		fmt.Fprintf(out, "%s Session %s started for %s (%s, %s)\n",
			st.ok(), st.render(st.bold, s.ShortID()), s.Root,
			plural(len(s.Files), "file"), plural(len(s.Folders), "folder"))
		fmt.Fprintf(out, "       Edit %s, then run '%s apply %s'.\n", s.ManifestPath, branding.CLIName(), s.Root)
		return nil
	},
}
