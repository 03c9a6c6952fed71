package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/spf13/cobra"
)

var forgetDelete bool

func init() {
	forgetCmd.Flags().BoolVar(&forgetDelete, "delete", false, "Also delete the manifest file")
	rootCmd.AddCommand(forgetCmd)
}

var forgetCmd = &cobra.Command{
	Use:   "forget [manifest|dir]",
	Short: "Close the session for a manifest",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager(editor.Nop{})
		path, err := resolveManifest(mgr, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		st := newOutputStyles(out)

		removed, err := mgr.Forget(path)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(out, "%s Session closed for %s\n", st.ok(), path)
		} else {
			fmt.Fprintf(out, "%s No session registered for %s\n", st.warn(), path)
		}

		if forgetDelete {
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("deleting manifest: %w", err)
			}
			fmt.Fprintf(out, "%s Deleted %s\n", st.ok(), path)
		}
		return nil
	},
}
