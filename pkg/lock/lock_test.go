package lock

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wowstat.lock")

	first, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, path, first.Path())

	pid, ok := ReadPID(path)
	if runtime.GOOS != "windows" {
		require.True(t, ok)
		assert.Equal(t, os.Getpid(), pid)
	}

	second, err := Acquire(path)
	require.Error(t, err)
	assert.Nil(t, second)
	assert.True(t, errors.Is(err, ErrLocked))

	require.NoError(t, first.Release())
	assert.FileExists(t, path)

	second, err = Acquire(path)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestReleaseTwice(t *testing.T) {
	l, err := Acquire(filepath.Join(t.TempDir(), "wowstat.lock"))
	require.NoError(t, err)

	require.NoError(t, l.Release())
	assert.NoError(t, l.Release())

	var nilLock *Lock
	assert.NoError(t, nilLock.Release())
}

func TestAcquireMissingDirectory(t *testing.T) {
	_, err := Acquire(filepath.Join(t.TempDir(), "missing", "wowstat.lock"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrLocked))
}

func TestReadPID(t *testing.T) {
	dir := t.TempDir()

	_, ok := ReadPID(filepath.Join(dir, "absent"))
	assert.False(t, ok)

	path := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))
	_, ok = ReadPID(path)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("4242\n"), 0o644))
	pid, ok := ReadPID(path)
	assert.True(t, ok)
	assert.Equal(t, 4242, pid)
}

func TestReleaseKeepsFileForWaitingOpener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wowstat.lock")

	first, err := Acquire(path)
	require.NoError(t, err)

	// Another process opened the lock file while first still held it.
	waiting, err := os.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer waiting.Close()

	require.NoError(t, first.Release())
	require.NoError(t, tryLock(waiting))
	defer unlock(waiting)

	third, err := Acquire(path)
	require.Error(t, err, "a second holder must not lock the same path")
	assert.Nil(t, third)
	assert.True(t, errors.Is(err, ErrLocked))
}
