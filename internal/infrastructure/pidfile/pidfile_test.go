package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadPID is far above any default pid_max
const deadPID = 99999999

func TestAcquire_WritesCurrentPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "farmsim.pid")
	pf := New(path)

	require.NoError(t, pf.Acquire())

	pid, err := pf.ReadPID()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, pf.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_RefusesLiveOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farmsim.pid")
	require.NoError(t, New(path).Acquire())

	err := New(path).Acquire()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestAcquire_ReplacesStaleAndGarbageFiles(t *testing.T) {
	for name, content := range map[string]string{
		"stale":   fmt.Sprintf("%d\n", deadPID),
		"garbage": "not-a-pid",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "farmsim.pid")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			require.NoError(t, New(path).Acquire())

			pid, err := New(path).ReadPID()
			require.NoError(t, err)
			assert.Equal(t, os.Getpid(), pid)
		})
	}
}

func TestRelease_LeavesForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farmsim.pid")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("%d\n", deadPID)), 0644))

	require.NoError(t, New(path).Release())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestKillExisting(t *testing.T) {
	dir := t.TempDir()

	assert.ErrorIs(t, New(filepath.Join(dir, "missing.pid")).KillExisting(), ErrNotRunning)

	stale := filepath.Join(dir, "stale.pid")
	require.NoError(t, os.WriteFile(stale, []byte(fmt.Sprintf("%d\n", deadPID)), 0644))
	assert.ErrorIs(t, New(stale).KillExisting(), ErrNotRunning)
	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale file is cleaned up")

	self := filepath.Join(dir, "self.pid")
	require.NoError(t, New(self).Acquire())
	assert.Error(t, New(self).KillExisting())
}
