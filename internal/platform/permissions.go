package platform

import (
	"os"
	"runtime"
)

// Permission modes used for files the tool owns.
const (
	FilePermSecure os.FileMode = 0600 // session state
	FilePermNormal os.FileMode = 0644 // manifests
	DirPermNormal  os.FileMode = 0755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// PermOK reports whether path's permission bits are no wider than want.
// Always true on Windows.
func PermOK(path string, want os.FileMode) (bool, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, 0, err
	}
	perm := info.Mode().Perm()
	if runtime.GOOS == "windows" {
		return true, perm, nil
	}
	return perm&^want == 0, perm, nil
}
