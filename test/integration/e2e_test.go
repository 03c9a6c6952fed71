//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/agentx-labs/bulkren/internal/watcher"
)

var p = filepath.FromSlash

// TestFullFlowAcrossInvocations tests the complete flow with every step in a
// fresh manager, as separate CLI runs would do:
// start -> rename files -> rename a folder -> delete manifest.
func TestFullFlowAcrossInvocations(t *testing.T) {
	env := setupTestEnv(t)
	setupTree(t, env.Root)

	// Step 1: Start a session.
	s, err := env.newManager().Start(env.Root)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.ManifestPath != env.manifestPath() {
		t.Fatalf("manifest path = %s, want %s", s.ManifestPath, env.manifestPath())
	}
	assertFileContains(t, env.manifestPath(), "// Bulk Rename for: "+filepath.Base(env.Root)+"\n")

	doc := parseManifest(t, env.manifestPath())
	wantFiles := []string{
		p("2024/summer/IMG_0100.jpg"),
		p("2024/summer/IMG_0101.jpg"),
		p("2024/winter/IMG_0200.jpg"),
		"IMG_0001.jpg",
		"IMG_0002.jpg",
		"notes.txt",
	}
	if !reflect.DeepEqual(doc.Files, wantFiles) {
		t.Errorf("manifest files = %v, want %v", doc.Files, wantFiles)
	}
	wantFolders := []string{p("2024/summer"), p("2024/winter"), "2024"}
	if !reflect.DeepEqual(doc.Folders, wantFolders) {
		t.Errorf("manifest folders = %v, want %v", doc.Folders, wantFolders)
	}

	// Step 2: Rename every photo.
	editManifest(t, env.manifestPath(), "IMG_", "photo_")
	res, err := env.newManager().Apply(env.manifestPath())
	if err != nil {
		t.Fatalf("Apply (files): %v", err)
	}
	if res.Fallback {
		t.Fatal("Apply fell back to a new session; state was not shared")
	}
	if len(res.Files) != 5 || len(res.Folders) != 0 {
		t.Errorf("renamed %d files and %d folders, want 5 and 0", len(res.Files), len(res.Folders))
	}
	assertFileExists(t, filepath.Join(env.Root, p("2024/summer/photo_0100.jpg")))
	assertFileNotExists(t, filepath.Join(env.Root, "IMG_0001.jpg"))
	assertFileContains(t, env.manifestPath(), "photo_0001.jpg\n")

	// Step 3: Rename a folder. File lines keep their old paths.
	editManifest(t, env.manifestPath(), p("2024/summer")+"\n", p("2024/summer-trip")+"\n")
	res, err = env.newManager().Apply(env.manifestPath())
	if err != nil {
		t.Fatalf("Apply (folder): %v", err)
	}
	if len(res.Folders) != 1 || len(res.Files) != 0 {
		t.Errorf("renamed %d folders and %d files, want 1 and 0", len(res.Folders), len(res.Files))
	}
	assertFileExists(t, filepath.Join(env.Root, p("2024/summer-trip/photo_0101.jpg")))
	assertFileNotExists(t, filepath.Join(env.Root, p("2024/summer")))

	// Step 4: Applying again without edits changes nothing.
	before := listTree(t, env.Root)
	res, err = env.newManager().Apply(env.manifestPath())
	if err != nil {
		t.Fatalf("Apply (no edits): %v", err)
	}
	if res.Renamed() != 0 {
		t.Errorf("renamed %d entries on an unedited manifest", res.Renamed())
	}
	if after := listTree(t, env.Root); !reflect.DeepEqual(before, after) {
		t.Errorf("tree changed on an unedited manifest:\nbefore %v\nafter  %v", before, after)
	}

	// Step 5: Ignored directories were never touched.
	assertFileExists(t, filepath.Join(env.Root, p(".git/HEAD")))
	assertFileExists(t, filepath.Join(env.Root, p("node_modules/pkg/index.js")))

	// Step 6: Deleting the manifest closes the session.
	if err := os.Remove(env.manifestPath()); err != nil {
		t.Fatalf("removing manifest: %v", err)
	}
	removed, err := env.newManager().Forget(env.manifestPath())
	if err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if !removed {
		t.Error("Forget reported no session")
	}
	list, err := env.newManager().Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no sessions, got %d", len(list))
	}
}

// TestRestructureNestedFolders moves a folder and its parent in one apply.
func TestRestructureNestedFolders(t *testing.T) {
	env := setupTestEnv(t)
	writeFile(t, filepath.Join(env.Root, p("a/b/inner.txt")), "x")

	if _, err := env.newManager().Start(env.Root); err != nil {
		t.Fatalf("Start: %v", err)
	}
	editManifest(t, env.manifestPath(),
		"Folders:\n"+p("a/b")+"\na\n",
		"Folders:\n"+p("x/b")+"\nx\n",
	)

	res, err := env.newManager().Apply(env.manifestPath())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Folders) != 2 {
		t.Errorf("renamed %d folders, want 2", len(res.Folders))
	}
	assertFileExists(t, filepath.Join(env.Root, p("x/b/inner.txt")))
	assertFileNotExists(t, filepath.Join(env.Root, "a"))
}

// TestCountChangeSkipsOnlyThatKind deletes a file line and renames a folder
// in the same edit.
func TestCountChangeSkipsOnlyThatKind(t *testing.T) {
	env := setupTestEnv(t)
	setupTree(t, env.Root)

	if _, err := env.newManager().Start(env.Root); err != nil {
		t.Fatalf("Start: %v", err)
	}
	editManifest(t, env.manifestPath(),
		"notes.txt\n", "",
		p("2024/winter")+"\n", p("2024/cold")+"\n",
	)

	res, err := env.newManager().Apply(env.manifestPath())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(res.Warnings))
	}
	if res.Warnings[0].Old != 6 || res.Warnings[0].New != 5 {
		t.Errorf("warning counts = %d -> %d, want 6 -> 5", res.Warnings[0].Old, res.Warnings[0].New)
	}
	assertFileExists(t, filepath.Join(env.Root, "notes.txt"))
	assertFileExists(t, filepath.Join(env.Root, p("2024/cold/IMG_0200.jpg")))
}

// TestWatchAppliesOnSave drives the watcher with a real filesystem.
func TestWatchAppliesOnSave(t *testing.T) {
	env := setupTestEnv(t)
	setupTree(t, env.Root)

	mgr := env.newManager()
	if _, err := mgr.Start(env.Root); err != nil {
		t.Fatalf("Start: %v", err)
	}

	events := make(chan watcher.Event, 8)
	w, err := watcher.New(mgr, watcher.Options{
		Debounce: 50 * time.Millisecond,
		Report:   func(ev watcher.Event) { events <- ev },
	})
	if err != nil {
		t.Fatalf("watcher.New: %v", err)
	}
	if err := w.Add(env.Root); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	}()

	editManifest(t, env.manifestPath(), "notes.txt", "README.txt")
	ev := waitFor(t, events)
	if ev.Kind != watcher.Applied || ev.Err != nil {
		t.Fatalf("event = %v (err %v), want applied", ev.Kind, ev.Err)
	}
	assertFileExists(t, filepath.Join(env.Root, "README.txt"))

	if err := os.Remove(env.manifestPath()); err != nil {
		t.Fatalf("removing manifest: %v", err)
	}
	ev = waitFor(t, events)
	if ev.Kind != watcher.Forgotten {
		t.Fatalf("event = %v, want forgotten", ev.Kind)
	}
}

func waitFor(t *testing.T, events <-chan watcher.Event) watcher.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return watcher.Event{}
	}
}
