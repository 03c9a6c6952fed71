package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/agentx-labs/bulkren/internal/manifest"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [manifest|dir]",
	Short: "Show a session and the edits made to its manifest",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager(editor.Nop{})
		path, err := resolveManifest(mgr, args)
		if err != nil {
			return err
		}

		s, err := mgr.Lookup(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		out := cmd.OutOrStdout()
		st := newOutputStyles(out)

		fmt.Fprintf(out, "Session %s\n", st.render(st.bold, s.ID))
		fmt.Fprintf(out, "  root:     %s\n", s.Root)
		fmt.Fprintf(out, "  manifest: %s\n", s.ManifestPath)
		fmt.Fprintf(out, "  started:  %s\n", s.CreatedAt.Local().Format(time.DateTime))
		fmt.Fprintf(out, "  entries:  %s, %s\n", plural(len(s.Files), "file"), plural(len(s.Folders), "folder"))
		fmt.Fprintln(out)

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(out, "%s Manifest is missing; run 'forget' to close the session\n", st.warn())
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}

		changed := writeLineDiff(out, st, manifest.Render(s.Document()), string(data))
		if !changed {
			fmt.Fprintln(out, "Manifest unchanged.")
			return nil
		}
		fmt.Fprintln(out)

		p, err := mgr.Preview(path)
		if err != nil {
			fmt.Fprintf(out, "%s %v\n", st.fail(), err)
			return nil
		}
		printPreview(out, st, p)
		return nil
	},
}

// writeLineDiff prints the lines removed from and added to before, and
// reports whether there were any.
func writeLineDiff(out io.Writer, st outputStyles, before, after string) bool {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false
	for _, d := range diffs {
		var prefix string
		style := st.dim
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, style = "-", st.red
		case diffmatchpatch.DiffInsert:
			prefix, style = "+", st.green
		default:
			continue
		}
		changed = true
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprint(out, st.render(style, prefix+strings.TrimSuffix(line, "\n"))+"\n")
		}
	}
	return changed
}
