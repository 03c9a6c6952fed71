package session

import (
	"path/filepath"
	"time"

	"github.com/agentx-labs/bulkren/internal/manifest"
	"github.com/google/uuid"
)

// Session is the snapshot a manifest was generated from. Files are in walk
// order; Folders are deepest-first. Both are relative to Root.
type Session struct {
	ID           string    `yaml:"id"`
	ManifestPath string    `yaml:"manifest_path"`
	Root         string    `yaml:"root"`
	Files        []string  `yaml:"files"`
	Folders      []string  `yaml:"folders"`
	CreatedAt    time.Time `yaml:"created_at"`
}

// New returns a Session with a fresh ID.
func New(root, manifestPath string, files, folders []string) *Session {
	return &Session{
		ID:           uuid.NewString(),
		ManifestPath: manifestPath,
		Root:         root,
		Files:        files,
		Folders:      folders,
		CreatedAt:    time.Now().UTC(),
	}
}

// ShortID returns the first eight characters of the ID for display.
func (s *Session) ShortID() string {
	if len(s.ID) > 8 {
		return s.ID[:8]
	}
	return s.ID
}

// SameTree reports whether two sessions describe the same root and lists.
func (s *Session) SameTree(other *Session) bool {
	if other == nil {
		return false
	}
	return s.Root == other.Root &&
		s.ManifestPath == other.ManifestPath &&
		equalStrings(s.Files, other.Files) &&
		equalStrings(s.Folders, other.Folders)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Document returns the manifest content this session generates.
func (s *Session) Document() *manifest.Document {
	return &manifest.Document{
		RootName: filepath.Base(s.Root),
		Files:    s.Files,
		Folders:  s.Folders,
	}
}
