// Package fileops provides small helpers over an fsys.FS: recursive
// delete, create-if-absent for directories and files, whole-file read and
// write with optional text encodings, and an upward search for a file.
package fileops

import (
	"fmt"
	"path/filepath"

	"fskit/pkg/charset"
	"fskit/pkg/fsys"
)

// Remove deletes path and, for a directory, everything below it.
func Remove(fs fsys.FS, path string) error {
	if err := fs.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	return nil
}

// EnsureDir creates path and any missing parents. An existing directory
// is not an error.
func EnsureDir(fs fsys.FS, path string) error {
	if err := fs.MkdirAll(path); err != nil {
		return fmt.Errorf("ensure directory %s: %w", path, err)
	}

	return nil
}

// EnsureFile creates an empty file at path, and its parent directories,
// unless something already exists there. Existing content is untouched.
func EnsureFile(fs fsys.FS, path string) error {
	if fs.Exists(path) {
		return nil
	}

	if err := fs.MkdirAll(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure file %s: %w", path, err)
	}
	if err := fs.CreateFile(path, false); err != nil {
		return fmt.Errorf("ensure file %s: %w", path, err)
	}

	return nil
}

// ReadFile returns the raw contents of path.
func ReadFile(fs fsys.FS, path string) ([]byte, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}

// ReadText returns the contents of path decoded from encoding.
// An empty encoding means UTF-8.
func ReadText(fs fsys.FS, path, encoding string) (string, error) {
	if _, err := charset.Lookup(encoding); err != nil {
		return "", err
	}

	data, err := ReadFile(fs, path)
	if err != nil {
		return "", err
	}

	text, err := charset.Decode(data, encoding)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return text, nil
}

// WriteFile writes data to path, creating parent directories as needed
// and replacing any existing content.
func WriteFile(fs fsys.FS, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// WriteText encodes text with encoding and writes it like WriteFile.
func WriteText(fs fsys.FS, path, text, encoding string) error {
	data, err := charset.Encode(text, encoding)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return WriteFile(fs, path, data)
}

// SearchFile looks for filename in startDir and then in each parent
// directory up to the filesystem root. It returns the absolute path of the
// first match, or false once the root has been checked without one.
func SearchFile(fs fsys.FS, filename, startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, filename)
		if fs.Exists(candidate) {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
