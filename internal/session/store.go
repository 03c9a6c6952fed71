package session

import (
	"sort"
	"sync"
)

// Store is the session registry, keyed by absolute manifest path.
type Store interface {
	// Get returns the session for manifestPath; ok is false if none exists.
	Get(manifestPath string) (s *Session, ok bool, err error)
	// Put registers s under s.ManifestPath, replacing any existing session.
	Put(s *Session) error
	// Delete removes the session for manifestPath and reports whether one existed.
	Delete(manifestPath string) (bool, error)
	// List returns all sessions ordered by manifest path.
	List() ([]*Session, error)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get implements Store.
func (m *MemoryStore) Get(manifestPath string) (*Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[manifestPath]
	return s, ok, nil
}

// Put implements Store.
func (m *MemoryStore) Put(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ManifestPath] = s
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(manifestPath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[manifestPath]
	delete(m.sessions, manifestPath)
	return ok, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedSessions(m.sessions), nil
}

func sortedSessions(byPath map[string]*Session) []*Session {
	out := make([]*Session, 0, len(byPath))
	for _, s := range byPath {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ManifestPath < out[j].ManifestPath
	})
	return out
}
