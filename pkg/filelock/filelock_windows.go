//go:build windows

package filelock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// Acquire opens the file at path and takes an exclusive LockFileEx lock
// on its first byte. The call does not block: if the lock is already held
// it fails with ErrLocked.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	var ol windows.Overlapped
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if err := windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, 1, 0, &ol); err != nil {
		f.Close()
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, fmt.Errorf("acquire lock %s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}

	return &Lock{file: f}, nil
}

// Close releases the lock, closes the file and removes it.
// Close on a nil Lock is a no-op.
func (l *Lock) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	var unlockErr error
	var ol windows.Overlapped
	if err := windows.UnlockFileEx(windows.Handle(l.file.Fd()), 0, 1, 0, &ol); err != nil {
		unlockErr = fmt.Errorf("unlock: %w", err)
	}

	if err := closeAndRemove(l.file, unlockErr); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}

	return nil
}
