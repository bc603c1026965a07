package fsys

import (
	"os"
)

// OS implements FS using the os package.
type OS struct{}

// NewOS creates a new OS filesystem.
func NewOS() *OS {
	return &OS{}
}

// Exists reports whether path can be stat'ed.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ListEntries delegates to os.ReadDir, which already sorts by name.
func (OS) ListEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, dirError(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// RemoveAll delegates to os.RemoveAll.
func (OS) RemoveAll(path string) error {
	return ioError(os.RemoveAll(path))
}

// MkdirAll delegates to os.MkdirAll.
func (OS) MkdirAll(path string) error {
	return ioError(os.MkdirAll(path, DirMode))
}

// CreateFile opens path with O_CREATE (and O_EXCL when exclusive) and
// closes it again without writing.
func (OS) CreateFile(path string, exclusive bool) error {
	f, err := os.OpenFile(path, createFlags(exclusive), FileMode)
	if err != nil {
		return ioError(err)
	}

	return ioError(f.Close())
}

// ReadFile delegates to os.ReadFile.
func (OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(err)
	}

	return data, nil
}

// WriteFile delegates to os.WriteFile.
func (OS) WriteFile(path string, data []byte) error {
	return ioError(os.WriteFile(path, data, FileMode))
}

var _ FS = (*OS)(nil)
