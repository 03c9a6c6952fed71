package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentx-labs/bulkren/internal/branding"
	"github.com/agentx-labs/bulkren/internal/editor"
	"github.com/agentx-labs/bulkren/internal/logging"
	"github.com/agentx-labs/bulkren/internal/manifest"
	"github.com/agentx-labs/bulkren/internal/rename"
	"github.com/agentx-labs/bulkren/internal/snapshot"
)

// ErrNoSession is returned by operations that need a registered session and
// have no fallback.
var ErrNoSession = errors.New("no session registered for this manifest")

// Config configures a Manager. Only Store is required.
type Config struct {
	Store        Store
	ManifestName string                // defaults to branding.ManifestName()
	Snapshotter  *snapshot.Snapshotter // defaults to snapshot.New(ManifestName)
	Opener       editor.Opener         // defaults to editor.Nop
}

// Manager runs the bulk-rename workflow against a Store. Its operations are
// serialized, so triggers arriving from a watcher never interleave.
type Manager struct {
	mu           sync.Mutex
	store        Store
	snap         *snapshot.Snapshotter
	manifestName string
	opener       editor.Opener
	log          *slog.Logger
}

// NewManager returns a Manager for cfg.
func NewManager(cfg Config) *Manager {
	name := cfg.ManifestName
	if name == "" {
		name = branding.ManifestName()
	}
	snap := cfg.Snapshotter
	if snap == nil {
		snap = snapshot.New(name)
	}
	opener := cfg.Opener
	if opener == nil {
		opener = editor.Nop{}
	}
	return &Manager{
		store:        cfg.Store,
		snap:         snap,
		manifestName: name,
		opener:       opener,
		log:          logging.WithComponent("session"),
	}
}

// ManifestName returns the manifest file name sessions are written to.
func (m *Manager) ManifestName() string { return m.manifestName }

// ManifestPath returns the manifest location for a session rooted at root.
func (m *Manager) ManifestPath(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}
	return filepath.Join(abs, m.manifestName), nil
}

// IsManifest reports whether path names a manifest file.
func (m *Manager) IsManifest(path string) bool {
	return filepath.Base(path) == m.manifestName
}

// Start snapshots root, writes its manifest, registers the session
// (replacing any previous one for the same manifest), and opens the
// manifest for editing. A failure to open is logged, not returned.
func (m *Manager) Start(root string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.start(root)
	if err != nil {
		return nil, err
	}

	if err := m.opener.Open(s.ManifestPath); err != nil {
		m.log.Warn("could not open manifest", "path", s.ManifestPath, "error", err)
	}
	return s, nil
}

func (m *Manager) start(root string) (*Session, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	tree, err := m.snap.Take(abs)
	if err != nil {
		return nil, fmt.Errorf("snapshotting %s: %w", abs, err)
	}

	s := New(abs, filepath.Join(abs, m.manifestName), tree.Files, tree.Folders)
	if err := manifest.Write(s.ManifestPath, s.Document()); err != nil {
		return nil, err
	}
	if err := m.store.Put(s); err != nil {
		return nil, fmt.Errorf("registering session: %w", err)
	}

	logging.WithSession(s.ID).Info("session started",
		"root", abs, "files", len(s.Files), "folders", len(s.Folders))
	return s, nil
}

// ApplyResult describes a completed Apply.
type ApplyResult struct {
	// Fallback is set when no session was registered and Apply started one
	// for the manifest's directory instead of renaming anything.
	Fallback bool
	Folders  []rename.Op
	Files    []rename.Op
	// Warnings lists the kinds skipped because their entry count changed.
	Warnings []*rename.CountMismatchError
	// Session is the fresh session registered after the apply.
	Session *Session
}

// Renamed returns the number of renames performed.
func (r *ApplyResult) Renamed() int {
	return len(r.Folders) + len(r.Files)
}

// Apply replays the edits in the manifest at manifestPath: folders first,
// deepest-first, then files. A kind whose entry count changed is skipped
// and reported in Warnings. A format error or failed rename is returned
// and leaves the registered session in place; renames performed before a
// failure are still reported in the result. After a successful apply the
// root is snapshotted again and the manifest rewritten.
func (m *Manager) Apply(manifestPath string) (*ApplyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", manifestPath, err)
	}

	prev, ok, err := m.store.Get(abs)
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	if !ok {
		m.log.Warn("no session for manifest, starting a new one", "path", abs)
		s, err := m.start(filepath.Dir(abs))
		if err != nil {
			return nil, err
		}
		return &ApplyResult{Fallback: true, Session: s}, nil
	}

	log := logging.WithSession(prev.ID)

	doc, err := manifest.ParseFile(abs)
	if err != nil {
		log.Error("manifest rejected", "path", abs, "error", err)
		return nil, err
	}

	res := &ApplyResult{}
	applier := rename.NewApplier(prev.Root)

	res.Folders, err = applier.Apply(rename.KindFolder, prev.Folders, doc.Folders)
	if err = res.absorb(err); err != nil {
		return res, err
	}
	res.Files, err = applier.Apply(rename.KindFile, prev.Files, doc.Files)
	if err = res.absorb(err); err != nil {
		return res, err
	}

	log.Info("apply complete", "folders", len(res.Folders), "files", len(res.Files), "warnings", len(res.Warnings))

	res.Session, err = m.start(prev.Root)
	if err != nil {
		return res, fmt.Errorf("refreshing session: %w", err)
	}
	return res, nil
}

// absorb records a count mismatch as a warning and passes any other error
// through.
func (r *ApplyResult) absorb(err error) error {
	var cm *rename.CountMismatchError
	if errors.As(err, &cm) {
		r.Warnings = append(r.Warnings, cm)
		return nil
	}
	return err
}

// Preview describes what Apply would do, without touching the filesystem.
type Preview struct {
	Session  *Session
	Folders  []rename.Op
	Files    []rename.Op
	Warnings []*rename.CountMismatchError
}

// Pending returns the number of renames the preview holds.
func (p *Preview) Pending() int {
	return len(p.Folders) + len(p.Files)
}

// Preview parses the manifest and plans its renames. It returns
// ErrNoSession when the manifest has no registered session.
func (m *Manager) Preview(manifestPath string) (*Preview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", manifestPath, err)
	}

	s, ok, err := m.store.Get(abs)
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}

	doc, err := manifest.ParseFile(abs)
	if err != nil {
		return nil, err
	}

	p := &Preview{Session: s}
	for _, step := range []struct {
		kind          rename.Kind
		before, after []string
		dst           *[]rename.Op
	}{
		{rename.KindFolder, s.Folders, doc.Folders, &p.Folders},
		{rename.KindFile, s.Files, doc.Files, &p.Files},
	} {
		ops, err := rename.Plan(s.Root, step.kind, step.before, step.after)
		var cm *rename.CountMismatchError
		switch {
		case errors.As(err, &cm):
			p.Warnings = append(p.Warnings, cm)
		case err != nil:
			return nil, err
		default:
			*step.dst = ops
		}
	}
	return p, nil
}

// Edited reports whether the manifest on disk differs from the text its
// session generated. A manifest with no session counts as edited.
func (m *Manager) Edited(manifestPath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", manifestPath, err)
	}

	s, ok, err := m.store.Get(abs)
	if err != nil {
		return false, fmt.Errorf("looking up session: %w", err)
	}
	if !ok {
		return true, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return false, fmt.Errorf("reading manifest %s: %w", abs, err)
	}
	return string(data) != manifest.Render(s.Document()), nil
}

// Lookup returns the session registered for manifestPath.
func (m *Manager) Lookup(manifestPath string) (*Session, error) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", manifestPath, err)
	}
	s, ok, err := m.store.Get(abs)
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Forget evicts the session for manifestPath, as when the manifest is
// deleted. It reports whether a session was registered.
func (m *Manager) Forget(manifestPath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", manifestPath, err)
	}

	removed, err := m.store.Delete(abs)
	if err != nil {
		return false, fmt.Errorf("removing session: %w", err)
	}
	if removed {
		m.log.Info("session closed", "path", abs)
	}
	return removed, nil
}

// Sessions lists all registered sessions.
func (m *Manager) Sessions() ([]*Session, error) {
	return m.store.List()
}
