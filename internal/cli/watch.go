package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/agentx-labs/bulkren/internal/config"
	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/agentx-labs/bulkren/internal/notify"
	"github.com/agentx-labs/bulkren/internal/watcher"
	"github.com/spf13/cobra"
)

var watchNotify bool

func init() {
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send a desktop notification after each apply")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Apply manifests automatically whenever they are saved",
	Long: `Start a session for each directory (default: the working directory) and
keep running. Saving a manifest applies it; deleting a manifest closes its
session. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := args
		if len(dirs) == 0 {
			dirs = []string{"."}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWatch(ctx, cmd.OutOrStdout(), dirs)
	},
}

func runWatch(ctx context.Context, out io.Writer, dirs []string) error {
	st := newOutputStyles(out)
	mgr := newManager(editor.Nop{})

	w, err := watcher.New(mgr, watcher.Options{
		Debounce: config.Current().Debounce,
		Report:   func(ev watcher.Event) { reportWatchEvent(out, st, ev) },
	})
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		s, err := mgr.Start(dir)
		if err != nil {
			return err
		}
		if err := w.Add(s.Root); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Watching %s (%s, %s)\n", st.ok(), s.ManifestPath,
			plural(len(s.Files), "file"), plural(len(s.Folders), "folder"))
	}

	if err := w.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Stopped watching.")
	return nil
}

func reportWatchEvent(out io.Writer, st outputStyles, ev watcher.Event) {
	dir := filepath.Base(filepath.Dir(ev.Path))

	switch ev.Kind {
	case watcher.Forgotten:
		fmt.Fprintf(out, "%s Manifest deleted; session closed for %s\n", st.ok(), filepath.Dir(ev.Path))
		return
	case watcher.Failed:
		fmt.Fprintf(out, "%s %s: %v\n", st.fail(), ev.Path, ev.Err)
		if watchNotify {
			_ = notify.Failed(dir, ev.Err)
		}
		return
	}

	if ev.Result != nil {
		printApplyResult(out, st, ev.Path, ev.Result)
	}
	if ev.Err != nil {
		fmt.Fprintf(out, "%s %v\n", st.fail(), ev.Err)
		if watchNotify {
			_ = notify.Failed(dir, ev.Err)
		}
		return
	}
	if watchNotify && ev.Result != nil && !ev.Result.Fallback {
		_ = notify.Applied(dir, ev.Result.Renamed(), len(ev.Result.Warnings))
	}
}
