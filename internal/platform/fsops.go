package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureParent creates the parent directory of path, including any missing
// ancestors.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Rename moves oldPath to newPath after creating newPath's parent. An
// existing newPath is never replaced; the move fails with os.ErrExist.
//
// When both paths are directories and newPath already exists, the move only
// succeeds if oldPath is empty: its children were already relocated under
// newPath by earlier renames, so the empty shell is removed instead.
// A newPath that resolves to oldPath itself, as in a case-only rename on a
// case-insensitive filesystem, is not a conflict.
func Rename(oldPath, newPath string) error {
	if err := EnsureParent(newPath); err != nil {
		return err
	}

	if merged, err := mergeEmptyDir(oldPath, newPath); merged || err != nil {
		return err
	}

	if err := checkTargetFree(oldPath, newPath); err != nil {
		return err
	}

	return os.Rename(oldPath, newPath)
}

// checkTargetFree fails when newPath exists and is a different file from
// oldPath. A missing oldPath is left for os.Rename to report.
func checkTargetFree(oldPath, newPath string) error {
	oldInfo, err := os.Lstat(oldPath)
	if err != nil {
		return nil
	}
	newInfo, err := os.Lstat(newPath)
	if err != nil || os.SameFile(oldInfo, newInfo) {
		return nil
	}
	return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: os.ErrExist}
}

// mergeEmptyDir handles the case where a directory is renamed onto an
// existing directory. It reports whether the rename was satisfied.
func mergeEmptyDir(oldPath, newPath string) (bool, error) {
	oldInfo, err := os.Lstat(oldPath)
	if err != nil || !oldInfo.IsDir() {
		return false, nil
	}
	newInfo, err := os.Lstat(newPath)
	if err != nil || !newInfo.IsDir() || os.SameFile(oldInfo, newInfo) {
		return false, nil
	}

	empty, err := IsEmptyDir(oldPath)
	if err != nil {
		return false, err
	}
	if !empty {
		return false, &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: os.ErrExist}
	}

	if err := os.Remove(oldPath); err != nil {
		return false, err
	}
	return true, nil
}

// IsEmptyDir reports whether dir has no entries.
func IsEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := EnsureParent(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
