package fsys

import (
	"errors"

	"fskit/pkg/safepath"
)

// errCannotRemoveRoot is returned when RemoveAll targets the root itself.
var errCannotRemoveRoot = errors.New("cannot remove root directory")

// Contained restricts another FS to paths inside a root directory.
// Reads are checked lexically and through symlinks; mutations also check
// that the deepest existing ancestor does not resolve outside the root.
type Contained struct {
	fs        FS
	validator *safepath.Validator
}

// NewContained wraps fs so that every path must stay below v.Root().
func NewContained(fs FS, v *safepath.Validator) *Contained {
	return &Contained{fs: fs, validator: v}
}

// Root returns the containment root.
func (c *Contained) Root() string {
	return c.validator.Root()
}

// CheckPath returns the containment error for path, or nil if path is
// inside the root.
func (c *Contained) CheckPath(path string) error {
	return c.validator.ValidatePathForRead(path)
}

// Exists reports false for any path outside the root.
func (c *Contained) Exists(path string) bool {
	if c.validator.ValidatePathForRead(path) != nil {
		return false
	}

	return c.fs.Exists(path)
}

// ListEntries lists dir if it is inside the root.
func (c *Contained) ListEntries(dir string) ([]string, error) {
	if err := c.validator.ValidatePathForRead(dir); err != nil {
		return nil, dirError(err)
	}

	return c.fs.ListEntries(dir)
}

// RemoveAll removes path if it is inside, and not equal to, the root.
func (c *Contained) RemoveAll(path string) error {
	if err := c.validator.ValidatePathForWrite(path); err != nil {
		return ioError(err)
	}
	if resolved, err := c.validator.ResolveSafePath(c.Root(), path); err == nil && resolved == c.Root() {
		return ioError(errCannotRemoveRoot)
	}

	return c.fs.RemoveAll(path)
}

// MkdirAll creates path if it is inside the root.
func (c *Contained) MkdirAll(path string) error {
	if err := c.validator.ValidatePathForWrite(path); err != nil {
		return ioError(err)
	}

	return c.fs.MkdirAll(path)
}

// CreateFile creates path if it is inside the root.
func (c *Contained) CreateFile(path string, exclusive bool) error {
	if err := c.validator.ValidatePathForWrite(path); err != nil {
		return ioError(err)
	}

	return c.fs.CreateFile(path, exclusive)
}

// ReadFile reads path if it is inside the root.
func (c *Contained) ReadFile(path string) ([]byte, error) {
	if err := c.validator.ValidatePathForRead(path); err != nil {
		return nil, ioError(err)
	}

	return c.fs.ReadFile(path)
}

// WriteFile writes path if it is inside the root.
func (c *Contained) WriteFile(path string, data []byte) error {
	if err := c.validator.ValidatePathForWrite(path); err != nil {
		return ioError(err)
	}

	return c.fs.WriteFile(path, data)
}

var _ FS = (*Contained)(nil)
