package rename

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(r), 0644))
	}
}

func TestPlan(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		old     []string
		new     []string
		want    []Op
		wantErr error
	}{
		{
			name: "unchanged",
			old:  []string{"a.txt", "b.txt"},
			new:  []string{"a.txt", "b.txt"},
			want: []Op{},
		},
		{
			name: "one change",
			old:  []string{"a.txt", "b.txt"},
			new:  []string{"a.txt", "c.txt"},
			want: []Op{{Kind: KindFile, From: "b.txt", To: "c.txt"}},
		},
		{
			name:    "line removed",
			old:     []string{"a.txt", "b.txt"},
			new:     []string{"a.txt"},
			wantErr: &CountMismatchError{Kind: KindFile, Old: 2, New: 1},
		},
		{
			name: "empty lists",
			old:  []string{},
			new:  []string{},
			want: []Op{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(root, KindFile, tt.old, tt.new)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_RejectsPathsOutsideRoot(t *testing.T) {
	root := t.TempDir()

	for _, target := range []string{"../escape.txt", "a/../../escape.txt", ".", "a/.."} {
		t.Run(target, func(t *testing.T) {
			_, err := Plan(root, KindFile, []string{"a.txt"}, []string{target})
			var re *RenameError
			require.ErrorAs(t, err, &re)
			assert.ErrorIs(t, err, ErrOutsideRoot)
			assert.Equal(t, "a.txt", re.From)
		})
	}
}

func TestApply_RenamesChangedEntries(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "file1.txt", "keep.txt")

	done, err := NewApplier(root).Apply(KindFile,
		[]string{"file1.txt", "keep.txt"},
		[]string{"renamed.txt", "keep.txt"},
	)
	require.NoError(t, err)
	assert.Equal(t, []Op{{Kind: KindFile, From: "file1.txt", To: "renamed.txt"}}, done)

	assert.FileExists(t, filepath.Join(root, "renamed.txt"))
	assert.FileExists(t, filepath.Join(root, "keep.txt"))
	assert.NoFileExists(t, filepath.Join(root, "file1.txt"))
}

func TestApply_CreatesMissingParents(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.txt")

	_, err := NewApplier(root).Apply(KindFile, []string{"a.txt"}, []string{filepath.Join("new", "dir", "a.txt")})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "new", "dir", "a.txt"))
}

func TestApply_CountMismatchRenamesNothing(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.txt", "b.txt")

	a := NewApplier(root)
	calls := 0
	a.rename = func(string, string) error { calls++; return nil }

	done, err := a.Apply(KindFile, []string{"a.txt", "b.txt"}, []string{"x.txt", "b.txt", "extra.txt"})
	var cm *CountMismatchError
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, 2, cm.Old)
	assert.Equal(t, 3, cm.New)
	assert.Empty(t, done)
	assert.Zero(t, calls)
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()

	a := NewApplier(root)
	var calls []string
	boom := errors.New("permission denied")
	a.rename = func(oldPath, newPath string) error {
		calls = append(calls, filepath.Base(oldPath))
		if filepath.Base(oldPath) == "b" {
			return boom
		}
		return nil
	}

	done, err := a.Apply(KindFolder, []string{"a", "b", "c"}, []string{"a2", "b2", "c2"})

	var re *RenameError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, KindFolder, re.Kind)
	assert.Equal(t, "b", re.From)
	assert.Equal(t, "b2", re.To)
	assert.Equal(t, []string{"a", "b"}, calls, "no rename after the failing one")
	assert.Equal(t, []Op{{Kind: KindFolder, From: "a", To: "a2"}}, done)
}

func TestApply_MissingSourceFails(t *testing.T) {
	root := t.TempDir()

	_, err := NewApplier(root).Apply(KindFile, []string{"gone.txt"}, []string{"new.txt"})
	var re *RenameError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to rename file gone.txt to new.txt")
}

func TestApply_NestedFolderMovedUnderRenamedParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	touch(t, root, "a/b/inner.txt")

	// Deepest-first order, as produced by a snapshot.
	old := []string{filepath.Join("a", "b"), "a"}
	renamed := []string{filepath.Join("x", "b"), "x"}

	_, err := NewApplier(root).Apply(KindFolder, old, renamed)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "x", "b", "inner.txt"))
	assert.NoDirExists(t, filepath.Join(root, "a"))
}

func TestApply_FolderSwapOntoNonEmptyDirFails(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/one.txt", "b/two.txt")

	_, err := NewApplier(root).Apply(KindFolder, []string{"a"}, []string{"b"})
	var re *RenameError
	require.ErrorAs(t, err, &re)
	assert.FileExists(t, filepath.Join(root, "a", "one.txt"))
	assert.FileExists(t, filepath.Join(root, "b", "two.txt"))
}

func TestApply_ExistingTargetFileIsKept(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("AAA"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("BBB"), 0644))

	done, err := NewApplier(root).Apply(KindFile, []string{"a.txt"}, []string{"b.txt"})
	var re *RenameError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, os.ErrExist)
	assert.Equal(t, "a.txt", re.From)
	assert.Empty(t, done)

	data, err := os.ReadFile(filepath.Join(root, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "BBB", string(data))
	assert.FileExists(t, filepath.Join(root, "a.txt"))
}

func TestApply_SwapStopsBeforeAnyRename(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("AAA"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("BBB"), 0644))

	done, err := NewApplier(root).Apply(KindFile, []string{"a.txt", "b.txt"}, []string{"b.txt", "a.txt"})
	assert.ErrorIs(t, err, os.ErrExist)
	assert.Empty(t, done)

	for name, want := range map[string]string{"a.txt": "AAA", "b.txt": "BBB"} {
		data, err := os.ReadFile(filepath.Join(root, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(data), name)
	}
}

func TestErrorMessages(t *testing.T) {
	cm := &CountMismatchError{Kind: KindFolder, Old: 3, New: 2}
	assert.Equal(t, "the number of folders was changed (3 -> 2); aborting folder renames to prevent data loss", cm.Error())
}
