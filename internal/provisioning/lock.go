package provisioning

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLockBusy is returned when another provisioning run holds the lock for
// the same config path. Concurrent runs against one device are never safe:
// both would write the config file and race the service manager.
var ErrLockBusy = errors.New("another provisioning run is already in progress for this config path")

// AcquireLock takes an advisory lock guarding configPath, returning a
// release function. The lock file lives next to the config file so that two
// runs targeting different config paths do not serialize against each other.
func AcquireLock(configPath string) (release func(), err error) {
	lockPath := configPath + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire provisioning lock: %w", err)
	}
	if !locked {
		return nil, ErrLockBusy
	}

	return func() { _ = fl.Unlock() }, nil
}
