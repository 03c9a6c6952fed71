// Package watcher turns filesystem events on manifest files into session
// operations: a save applies the manifest, a deletion forgets its session.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agentx-labs/bulkren/internal/logging"
	"github.com/agentx-labs/bulkren/internal/session"
	"github.com/fsnotify/fsnotify"
)

// Target is the session API the watcher drives.
type Target interface {
	IsManifest(path string) bool
	Edited(manifestPath string) (bool, error)
	Apply(manifestPath string) (*session.ApplyResult, error)
	Forget(manifestPath string) (bool, error)
}

// EventKind classifies what the watcher did in response to a trigger.
type EventKind int

const (
	// Applied means the manifest was applied. Err is set when the apply
	// stopped early; Result may still list completed renames.
	Applied EventKind = iota
	// Forgotten means the manifest disappeared and its session was evicted.
	Forgotten
	// Failed means the trigger could not be handled at all.
	Failed
)

func (k EventKind) String() string {
	switch k {
	case Applied:
		return "applied"
	case Forgotten:
		return "forgotten"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is reported once per handled trigger.
type Event struct {
	Kind   EventKind
	Path   string
	Result *session.ApplyResult
	Err    error
}

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a manifest must be quiet before it is handled.
	Debounce time.Duration
	// Report receives every handled trigger. It is called from Run's
	// goroutine and must not block for long.
	Report func(Event)
}

// Watcher watches directories for changes to their manifest file.
type Watcher struct {
	target   Target
	debounce time.Duration
	report   func(Event)
	fsw      *fsnotify.Watcher
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	fire    chan string
	done    chan struct{}
}

// New returns a Watcher driving target. Call Add for each directory, then Run.
func New(target Target, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	report := opts.Report
	if report == nil {
		report = func(Event) {}
	}
	return &Watcher{
		target:   target,
		debounce: opts.Debounce,
		report:   report,
		fsw:      fsw,
		log:      logging.WithComponent("watcher"),
		pending:  make(map[string]*time.Timer),
		fire:     make(chan string),
		done:     make(chan struct{}),
	}, nil
}

// Add starts watching dir. Only the manifest directly inside dir is tracked.
func (w *Watcher) Add(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	if err := w.fsw.Add(abs); err != nil {
		return fmt.Errorf("watching %s: %w", abs, err)
	}
	w.log.Info("watching directory", "dir", abs)
	return nil
}

// Run handles events until ctx is cancelled, then releases the watcher.
// Triggers are handled one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.observe(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)

		case path := <-w.fire:
			w.handle(path)
		}
	}
}

func (w *Watcher) close() {
	close(w.done)

	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if err := w.fsw.Close(); err != nil {
		w.log.Warn("closing file watcher", "error", err)
	}
}

// observe schedules a manifest for handling once its events settle. Editors
// often save via truncate+write or write-temp+rename, so a single save can
// produce several events, including a transient removal.
func (w *Watcher) observe(ev fsnotify.Event) {
	if !w.target.IsManifest(ev.Name) {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	w.log.Debug("manifest event", "path", ev.Name, "op", ev.Op.String())

	path := ev.Name
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		select {
		case w.fire <- path:
		case <-w.done:
		}
	})
}

// handle applies or forgets the manifest at path depending on whether it
// still exists. A manifest whose text matches what its session generated is
// left alone, which covers the rewrite that follows every apply.
func (w *Watcher) handle(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		removed, err := w.target.Forget(path)
		switch {
		case err != nil:
			w.report(Event{Kind: Failed, Path: path, Err: err})
		case removed:
			w.report(Event{Kind: Forgotten, Path: path})
		}
		return
	}

	edited, err := w.target.Edited(path)
	if err != nil {
		w.report(Event{Kind: Failed, Path: path, Err: err})
		return
	}
	if !edited {
		w.log.Debug("manifest unchanged", "path", path)
		return
	}

	res, err := w.target.Apply(path)
	w.report(Event{Kind: Applied, Path: path, Result: res, Err: err})
}
