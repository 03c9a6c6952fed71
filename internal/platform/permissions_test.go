package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChmod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1.0.0"), FilePermNormal))

	require.NoError(t, Chmod(path, FilePermSecure))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, FilePermSecure, info.Mode().Perm())
	}
}

func TestPermOK(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	require.NoError(t, os.Chmod(path, 0644))

	ok, perm, err := PermOK(path, FilePermSecure)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, os.FileMode(0644), perm)

	require.NoError(t, Chmod(path, 0600))
	ok, _, err = PermOK(path, FilePermSecure)
	require.NoError(t, err)
	assert.True(t, ok)
}
