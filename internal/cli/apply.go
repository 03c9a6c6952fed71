package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/agentx-labs/bulkren/internal/rename"
	"github.com/agentx-labs/bulkren/internal/session"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	applyDryRun  bool
	applyConfirm bool
)

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show the renames without performing them")
	applyCmd.Flags().BoolVar(&applyConfirm, "confirm", false, "Ask before renaming")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply [manifest|dir]",
	Short: "Apply the edits in a manifest",
	Long: `Rename every file and folder whose line changed in the manifest. Folders
are renamed first, deepest first, then files. If the number of lines of a kind
changed, that kind is skipped. After a successful apply the directory is
snapshotted again and the manifest rewritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager(editor.Nop{})
		path, err := resolveManifest(mgr, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		st := newOutputStyles(out)

		if applyDryRun || applyConfirm {
			p, err := mgr.Preview(path)
			switch {
			case errors.Is(err, session.ErrNoSession):
				if applyDryRun {
					fmt.Fprintf(out, "%s No session for %s; apply would start a new one.\n", st.warn(), path)
					return nil
				}
			case err != nil:
				return err
			default:
				printPreview(out, st, p)
				if applyDryRun {
					return nil
				}
				if p.Pending() > 0 {
					proceed, err := confirmRenames(out, st, p.Pending())
					if err != nil {
						return err
					}
					if !proceed {
						fmt.Fprintln(out, "Aborted.")
						return nil
					}
				}
			}
		}

		res, err := mgr.Apply(path)
		if res != nil {
			printApplyResult(out, st, path, res)
		}
		return err
	},
}

// confirmRenames asks whether to go ahead. Without a terminal on stdin
// there is nobody to ask, so the renames proceed.
func confirmRenames(out io.Writer, st outputStyles, pending int) (bool, error) {
	if !stdinIsTerminal() {
		fmt.Fprintf(out, "%s stdin is not a terminal; skipping confirmation\n", st.warn())
		return true, nil
	}
	return confirm(fmt.Sprintf("Apply %s?", plural(pending, "rename")))
}

var stdinIsTerminal = func() bool { return isTerminal(os.Stdin) }

var confirm = func(title string) (bool, error) {
	proceed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Rename").
				Negative("Cancel").
				Value(&proceed),
		),
	).WithAccessible(os.Getenv("ACCESSIBLE") != "")

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return proceed, nil
}

func printPreview(out io.Writer, st outputStyles, p *session.Preview) {
	for _, w := range p.Warnings {
		fmt.Fprintf(out, "%s %s\n", st.warn(), w.Error())
	}
	if p.Pending() == 0 {
		fmt.Fprintln(out, "No renames pending.")
		return
	}
	for _, op := range append(append([]rename.Op{}, p.Folders...), p.Files...) {
		fmt.Fprintf(out, "  %-6s %s -> %s\n", op.Kind, op.From, op.To)
	}
	fmt.Fprintf(out, "%s pending\n", plural(p.Pending(), "rename"))
}

func printApplyResult(out io.Writer, st outputStyles, path string, res *session.ApplyResult) {
	if res.Fallback {
		fmt.Fprintf(out, "%s No session for %s; started a new one. Edit the manifest and apply again.\n", st.warn(), path)
		return
	}

	for _, op := range append(append([]rename.Op{}, res.Folders...), res.Files...) {
		fmt.Fprintf(out, "%s Renamed %s %s -> %s\n", st.ok(), op.Kind, op.From, op.To)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "%s %s\n", st.warn(), w.Error())
	}
	if res.Session == nil {
		return
	}

	summary := []string{plural(len(res.Folders), "folder"), plural(len(res.Files), "file")}
	fmt.Fprintf(out, "%s Renamed %s; session %s refreshed\n",
		st.ok(), strings.Join(summary, " and "), st.render(st.bold, res.Session.ShortID()))
}
