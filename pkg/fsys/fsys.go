// Package fsys defines the filesystem capability surface used across fskit.
//
// Production code uses [OS], which delegates to the os package. Tests use
// [Afero] over an in-memory afero filesystem. [Contained] wraps either one
// and refuses paths that leave a root directory.
package fsys

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrIO marks a failed read, write, create or remove.
	ErrIO = errors.New("i/o error")
	// ErrDirectoryAccess marks a directory that could not be listed.
	ErrDirectoryAccess = errors.New("directory access error")
)

const (
	// DirMode is the permission used for created directories.
	DirMode os.FileMode = 0o755
	// FileMode is the permission used for created files.
	FileMode os.FileMode = 0o644
)

// FS abstracts the filesystem operations fskit needs, no more.
type FS interface {
	// Exists reports whether a file or directory is present at path.
	// It never fails: any error while probing is reported as false.
	Exists(path string) bool

	// ListEntries returns the names of the entries directly inside dir,
	// sorted by name. Failures wrap ErrDirectoryAccess.
	ListEntries(dir string) ([]string, error)

	// RemoveAll deletes path and everything below it. A missing path is
	// not an error.
	RemoveAll(path string) error

	// MkdirAll creates a directory and all missing parents.
	MkdirAll(path string) error

	// CreateFile creates an empty file if nothing is at path. When
	// exclusive is set an existing path fails with an error matching
	// fs.ErrExist; otherwise an existing file is left untouched.
	CreateFile(path string, exclusive bool) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating or truncating it.
	WriteFile(path string, data []byte) error
}

func ioError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIO) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrIO, err)
}

func dirError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDirectoryAccess) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrDirectoryAccess, err)
}

func createFlags(exclusive bool) int {
	flags := os.O_CREATE | os.O_WRONLY
	if exclusive {
		flags |= os.O_EXCL
	}

	return flags
}
