package fsys

import (
	"github.com/spf13/afero"
)

// Afero implements FS on top of any afero.Fs.
type Afero struct {
	fs afero.Fs
}

// NewAfero wraps fs.
func NewAfero(fs afero.Fs) *Afero {
	return &Afero{fs: fs}
}

// NewMemory returns an Afero backed by a fresh in-memory filesystem.
func NewMemory() *Afero {
	return NewAfero(afero.NewMemMapFs())
}

// Exists reports whether path can be stat'ed.
func (a *Afero) Exists(path string) bool {
	_, err := a.fs.Stat(path)
	return err == nil
}

// ListEntries returns entry names sorted by name.
func (a *Afero) ListEntries(dir string) ([]string, error) {
	infos, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, dirError(err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}

	return names, nil
}

// RemoveAll delegates to the wrapped filesystem.
func (a *Afero) RemoveAll(path string) error {
	return ioError(a.fs.RemoveAll(path))
}

// MkdirAll delegates to the wrapped filesystem.
func (a *Afero) MkdirAll(path string) error {
	return ioError(a.fs.MkdirAll(path, DirMode))
}

// CreateFile opens path with O_CREATE (and O_EXCL when exclusive) and
// closes it again without writing.
func (a *Afero) CreateFile(path string, exclusive bool) error {
	f, err := a.fs.OpenFile(path, createFlags(exclusive), FileMode)
	if err != nil {
		return ioError(err)
	}

	return ioError(f.Close())
}

// ReadFile delegates to afero.ReadFile.
func (a *Afero) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, ioError(err)
	}

	return data, nil
}

// WriteFile delegates to afero.WriteFile.
func (a *Afero) WriteFile(path string, data []byte) error {
	return ioError(afero.WriteFile(a.fs, path, data, FileMode))
}

var _ FS = (*Afero)(nil)
