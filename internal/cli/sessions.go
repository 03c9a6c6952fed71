package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/agentx-labs/bulkren/internal/config"
	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/agentx-labs/bulkren/internal/platform"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List open rename sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		st := newOutputStyles(out)

		statePath := config.Current().StateFile
		ok, perm, err := platform.PermOK(statePath, platform.FilePermSecure)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			fmt.Fprintf(out, "%s Could not check %s: %v\n", st.warn(), statePath, err)
		case !ok:
			fmt.Fprintf(out, "%s %s has mode %04o; expected %04o\n", st.warn(), statePath, perm, platform.FilePermSecure)
		}

		list, err := newManager(editor.Nop{}).Sessions()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(out, "No open sessions.")
			return nil
		}

		for _, s := range list {
			fmt.Fprintf(out, "%s  %s  %s, %s  %s\n",
				st.render(st.bold, s.ShortID()),
				s.Root,
				plural(len(s.Files), "file"),
				plural(len(s.Folders), "folder"),
				st.render(st.dim, s.CreatedAt.Local().Format(time.DateTime)))
		}
		return nil
	},
}
