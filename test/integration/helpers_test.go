//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/agentx-labs/bulkren/internal/manifest"
	"github.com/agentx-labs/bulkren/internal/session"
)

const manifestName = ".BULK_RENAME.txt"

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // BULKREN_HOME, holds the state file
	StateFile string
	Root      string // the directory being renamed
}

// setupTestEnv creates isolated temp directories and points BULKREN_HOME at
// one of them so no test touches the real home directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		Root:    t.TempDir(),
	}
	env.StateFile = filepath.Join(env.HomeDir, "sessions.yaml")
	t.Setenv("BULKREN_HOME", env.HomeDir)
	return env
}

// newManager returns a manager over the shared state file, standing in for
// a separate CLI invocation.
func (e *testEnv) newManager() *session.Manager {
	return session.NewManager(session.Config{
		Store:        session.NewFileStore(e.StateFile),
		ManifestName: manifestName,
	})
}

func (e *testEnv) manifestPath() string {
	return filepath.Join(e.Root, manifestName)
}

// setupTree creates a small photo library with nested folders.
func setupTree(t *testing.T, root string) {
	t.Helper()
	for _, f := range []string{
		"IMG_0001.jpg",
		"IMG_0002.jpg",
		"notes.txt",
		"2024/summer/IMG_0100.jpg",
		"2024/summer/IMG_0101.jpg",
		"2024/winter/IMG_0200.jpg",
		".git/HEAD",
		"node_modules/pkg/index.js",
	} {
		writeFile(t, filepath.Join(root, filepath.FromSlash(f)), f)
	}
}

// editManifest rewrites the manifest by replacing old with new on every line.
func editManifest(t *testing.T, path string, replacements ...string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	text := strings.NewReplacer(replacements...).Replace(string(data))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
}

// parseManifest reads the manifest back, failing the test on error.
func parseManifest(t *testing.T, path string) *manifest.Document {
	t.Helper()
	doc, err := manifest.ParseFile(path)
	if err != nil {
		t.Fatalf("parsing manifest: %v", err)
	}
	return doc
}

// listTree returns every path under root, relative and sorted.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root {
			rel, _ := filepath.Rel(root, path)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	sort.Strings(out)
	return out
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
