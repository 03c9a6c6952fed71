package session

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/bulkren/internal/platform"
	"go.yaml.in/yaml/v3"
)

// StateVersion is the format version written to new state files. Files
// with a different major version are refused.
const StateVersion = "1.0.0"

// stateFile is the on-disk layout of a FileStore.
type stateFile struct {
	Version  string              `yaml:"version"`
	Sessions map[string]*Session `yaml:"sessions"`
}

// FileStore is a Store persisted as a YAML file, so that a session started
// by one process can be applied by another. Each operation re-reads the
// file; concurrent writers in different processes are last-write-wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore backed by path. The file is created on
// the first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the state file location.
func (f *FileStore) Path() string { return f.path }

// Get implements Store.
func (f *FileStore) Get(manifestPath string) (*Session, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return nil, false, err
	}
	s, ok := state.Sessions[manifestPath]
	return s, ok, nil
}

// Put implements Store.
func (f *FileStore) Put(s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	state.Sessions[s.ManifestPath] = s
	return f.save(state)
}

// Delete implements Store.
func (f *FileStore) Delete(manifestPath string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return false, err
	}
	if _, ok := state.Sessions[manifestPath]; !ok {
		return false, nil
	}
	delete(state.Sessions, manifestPath)
	return true, f.save(state)
}

// List implements Store.
func (f *FileStore) List() ([]*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return nil, err
	}
	return sortedSessions(state.Sessions), nil
}

// load reads the state file. A missing or empty file is an empty state.
func (f *FileStore) load() (*stateFile, error) {
	empty := &stateFile{Version: StateVersion, Sessions: map[string]*Session{}}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session state %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return empty, nil
	}

	if err := validateState(data); err != nil {
		return nil, fmt.Errorf("session state %s: %w", f.path, err)
	}

	var state stateFile
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing session state %s: %w", f.path, err)
	}
	if err := checkVersion(state.Version); err != nil {
		return nil, fmt.Errorf("session state %s: %w", f.path, err)
	}
	if state.Sessions == nil {
		state.Sessions = map[string]*Session{}
	}
	return &state, nil
}

func (f *FileStore) save(state *stateFile) error {
	state.Version = StateVersion

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}
	if err := platform.WriteFileAtomic(f.path, data, platform.FilePermSecure); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return nil
}

// checkVersion accepts any state written with the current major version.
func checkVersion(version string) error {
	current := semver.MustParse(StateVersion)
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("parsing state version %q: %w", version, err)
	}
	if v.Major() != current.Major() {
		return fmt.Errorf("unsupported state version %s (this build reads %d.x)", v, current.Major())
	}
	return nil
}
