package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/bulkren/internal/config"
	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/agentx-labs/bulkren/internal/session"
	"github.com/agentx-labs/bulkren/internal/snapshot"
)

// newManager builds a session manager from the current settings. Sessions
// live in the state file so that separate invocations share them.
func newManager(opener editor.Opener) *session.Manager {
	s := config.Current()
	return session.NewManager(session.Config{
		Store:        session.NewFileStore(s.StateFile),
		ManifestName: s.ManifestName,
		Snapshotter:  snapshot.New(s.ManifestName, s.Ignore...),
		Opener:       opener,
	})
}

// resolveManifest maps a command argument to a manifest path. A directory,
// or no argument at all (the working directory), resolves to the manifest
// inside it; anything else is taken as the manifest path itself.
func resolveManifest(mgr *session.Manager, args []string) (string, error) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return mgr.ManifestPath(target)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", target, err)
	}
	return abs, nil
}

// rootArg returns the directory argument, defaulting to the working directory.
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
