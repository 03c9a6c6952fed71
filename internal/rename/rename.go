package rename

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/bulkren/internal/logging"
	"github.com/agentx-labs/bulkren/internal/platform"
)

// Kind distinguishes file renames from folder renames.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Op is one pending or performed rename. Paths are relative to the root.
type Op struct {
	Kind Kind
	From string
	To   string
}

// Plan pairs oldList with newList by index and returns the entries whose
// path changed, in list order. It returns a *CountMismatchError when the
// lengths differ and a *RenameError when a new path escapes root.
func Plan(root string, kind Kind, oldList, newList []string) ([]Op, error) {
	if len(oldList) != len(newList) {
		return nil, &CountMismatchError{Kind: kind, Old: len(oldList), New: len(newList)}
	}

	ops := []Op{}
	for i := range oldList {
		if oldList[i] == newList[i] {
			continue
		}
		if !within(root, newList[i]) {
			return nil, &RenameError{Kind: kind, From: oldList[i], To: newList[i], Err: ErrOutsideRoot}
		}
		ops = append(ops, Op{Kind: kind, From: oldList[i], To: newList[i]})
	}
	return ops, nil
}

// within reports whether rel, joined to root, stays strictly below root.
func within(root, rel string) bool {
	abs := filepath.Join(root, rel)
	r, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	if r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}

// Applier performs renames under a single session root.
type Applier struct {
	root   string
	rename func(oldPath, newPath string) error
	log    *slog.Logger
}

// NewApplier returns an Applier rooted at root.
func NewApplier(root string) *Applier {
	return &Applier{
		root:   root,
		rename: platform.Rename,
		log:    logging.WithComponent("rename"),
	}
}

// Apply renames every entry of kind whose path differs between oldList and
// newList. Nothing is renamed if Plan fails. The first failed rename stops
// the loop; the ops performed before it are returned with the error.
func (a *Applier) Apply(kind Kind, oldList, newList []string) ([]Op, error) {
	ops, err := Plan(a.root, kind, oldList, newList)
	if err != nil {
		return nil, err
	}

	done := make([]Op, 0, len(ops))
	for _, op := range ops {
		oldAbs := filepath.Join(a.root, op.From)
		newAbs := filepath.Join(a.root, op.To)

		a.log.Info("renaming", "kind", string(kind), "from", oldAbs, "to", newAbs)
		if err := a.rename(oldAbs, newAbs); err != nil {
			a.log.Error("rename failed", "kind", string(kind), "from", op.From, "to", op.To, "error", err)
			return done, &RenameError{Kind: kind, From: op.From, To: op.To, Err: err}
		}
		done = append(done, op)
	}
	return done, nil
}
