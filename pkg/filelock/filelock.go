// Package filelock provides advisory, non-blocking file locks. fskit uses
// one lock file per directory to keep concurrent claim commands from
// handing out the same name.
package filelock

import (
	"errors"
	"os"
	"path/filepath"
)

// DirLockName is the lock file created inside a directory by AcquireDir.
const DirLockName = ".fskit.lock"

// ErrLocked is returned when another holder already has the lock.
var ErrLocked = errors.New("lock is held by another process")

// Lock represents an acquired advisory file lock.
type Lock struct {
	file *os.File
}

// AcquireDir locks dir through DirLockName inside it. The directory must
// already exist.
func AcquireDir(dir string) (*Lock, error) {
	return Acquire(filepath.Join(dir, DirLockName))
}

// Path returns the lock file path, or "" for a nil lock.
func (l *Lock) Path() string {
	if l == nil || l.file == nil {
		return ""
	}

	return l.file.Name()
}

func closeAndRemove(f *os.File, unlockErr error) error {
	path := f.Name()

	closeErr := f.Close()
	removeErr := os.Remove(path)

	if unlockErr != nil {
		return unlockErr
	}
	if closeErr != nil {
		return closeErr
	}
	if removeErr != nil && !os.IsNotExist(removeErr) {
		return removeErr
	}

	return nil
}
