//go:build !windows

package filelock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Acquire opens the file at path and takes an exclusive flock(2) on it.
// The call does not block: if the lock is already held it fails with
// ErrLocked.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
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
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		unlockErr = fmt.Errorf("unlock: %w", err)
	}

	if err := closeAndRemove(l.file, unlockErr); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}

	return nil
}
