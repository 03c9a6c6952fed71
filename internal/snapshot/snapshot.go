package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultIgnored are entry names never included in a snapshot, at any depth.
var DefaultIgnored = []string{".git", "node_modules", ".vscode", "out"}

// Tree is the result of a snapshot.
type Tree struct {
	Files   []string
	Folders []string
}

// Snapshotter walks directories, skipping a fixed set of entry names.
type Snapshotter struct {
	ignored map[string]bool
}

// New returns a Snapshotter that skips DefaultIgnored, the manifest file
// name, and any extra names.
func New(manifestName string, extra ...string) *Snapshotter {
	ignored := make(map[string]bool, len(DefaultIgnored)+len(extra)+1)
	for _, name := range DefaultIgnored {
		ignored[name] = true
	}
	if manifestName != "" {
		ignored[manifestName] = true
	}
	for _, name := range extra {
		ignored[name] = true
	}
	return &Snapshotter{ignored: ignored}
}

// Ignores reports whether an entry with the given name is skipped.
func (s *Snapshotter) Ignores(name string) bool {
	return s.ignored[name]
}

// Take walks root depth-first. Within a directory, entries are visited in
// lexical order; a directory is recorded before its children. Symlinks and
// other non-regular entries are skipped. Any unreadable directory aborts the
// whole snapshot.
func (s *Snapshotter) Take(root string) (*Tree, error) {
	tree := &Tree{Files: []string{}, Folders: []string{}}
	if err := s.walk(root, root, tree); err != nil {
		return nil, err
	}
	SortDeepestFirst(tree.Folders)
	return tree, nil
}

func (s *Snapshotter) walk(root, dir string, tree *Tree) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if s.ignored[entry.Name()] {
			continue
		}

		fullPath := filepath.Join(dir, entry.Name())
		relPath, err := filepath.Rel(root, fullPath)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", fullPath, err)
		}

		switch {
		case entry.IsDir():
			tree.Folders = append(tree.Folders, relPath)
			if err := s.walk(root, fullPath, tree); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			tree.Files = append(tree.Files, relPath)
		}
	}

	return nil
}

// SortDeepestFirst orders folder paths by descending length. Ties keep their
// walk order. A nested path is always longer than its ancestor, so every
// folder comes before the folders that contain it.
func SortDeepestFirst(folders []string) {
	sort.SliceStable(folders, func(i, j int) bool {
		return len(folders[i]) > len(folders[j])
	})
}
