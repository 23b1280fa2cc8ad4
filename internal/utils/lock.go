package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileSuffix = ".lock"

// DBLock keeps two runs from modifying the same database, and therefore the
// same account, at the same time.
type DBLock struct {
	lock *flock.Flock
	path string
}

// NewDBLock creates a lock file next to the given database path.
func NewDBLock(dbPath string) (*DBLock, error) {
	absPath, err := GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}
	lockPath := absPath + lockFileSuffix
	return &DBLock{lock: flock.New(lockPath), path: lockPath}, nil
}

// Lock acquires the lock, waiting for a concurrent run to finish first.
func (l *DBLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}
	if locked {
		return nil
	}

	Log.Warn("Another autoneg run is using the database, waiting for it to finish...")
	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
	}
	return nil
}

// Unlock releases the lock. Releasing a lock that is not held is not an error.
func (l *DBLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// GetAbsDBPath resolves the database path. An empty path means the default
// location under the user's config directory.
func GetAbsDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "autoneg", "autoneg.sqlite"), nil
	}
	return filepath.Abs(dbPath)
}
