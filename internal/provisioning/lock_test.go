package provisioning

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock_Exclusive(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".edgelink", "config.json")

	release, err := AcquireLock(configPath)
	require.NoError(t, err)
	t.Cleanup(release)

	_, err = AcquireLock(configPath)
	assert.ErrorIs(t, err, ErrLockBusy)
}

func TestAcquireLock_ReleasedLockCanBeReacquired(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	release, err := AcquireLock(configPath)
	require.NoError(t, err)
	release()

	release, err = AcquireLock(configPath)
	require.NoError(t, err)
	release()
}

func TestAcquireLock_DifferentPathsDoNotSerialize(t *testing.T) {
	dir := t.TempDir()

	releaseA, err := AcquireLock(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	t.Cleanup(releaseA)

	releaseB, err := AcquireLock(filepath.Join(dir, "b.json"))
	require.NoError(t, err)
	t.Cleanup(releaseB)
}
