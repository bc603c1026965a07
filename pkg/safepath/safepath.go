// Package safepath validates that paths stay inside a designated root
// directory, including through symlinks in the part of the path that
// already exists.
package safepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates an attempt to access a path outside the root.
	ErrPathEscape = errors.New("path escapes root directory")
	// ErrSymlinkEscape indicates a symlink resolves outside the root.
	ErrSymlinkEscape = errors.New("symlink target escapes root directory")
	// ErrInvalidRoot indicates the root path is invalid.
	ErrInvalidRoot = errors.New("invalid root directory")
)

// Validator checks paths against a root directory.
type Validator struct {
	root string // Absolute, cleaned, symlink-free path to the root.
}

// New creates a Validator for root, which must be an existing directory.
func New(root string) (*Validator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	cleanRoot := filepath.Clean(resolvedRoot)

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	return &Validator{root: cleanRoot}, nil
}

// Root returns the absolute path to the root directory.
func (v *Validator) Root() string {
	return v.root
}

// ValidateSymlink checks that a symlink at path points inside the root.
// Paths that are not symlinks only get the lexical check.
func (v *Validator) ValidateSymlink(path string) error {
	if err := v.containsPath(path); err != nil {
		return err
	}

	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("cannot stat symlink: %w", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return nil
	}

	target, err := os.Readlink(path)
	if err != nil {
		return fmt.Errorf("cannot read symlink: %w", err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}

	if err := v.containsPath(target); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, target)
	}

	return nil
}

// ValidatePathForRead is ValidatePath plus ValidateSymlink for an
// existing path. A missing path only gets the lexical check.
func (v *Validator) ValidatePathForRead(path string) error {
	if err := v.containsPath(path); err != nil {
		return err
	}

	err := v.ValidateSymlink(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// ValidatePathForWrite checks that path is inside the root and that the
// deepest existing ancestor of path does not resolve outside it.
func (v *Validator) ValidatePathForWrite(path string) error {
	if err := v.containsPath(path); err != nil {
		return err
	}

	resolvedPath, err := resolveExistingPath(path)
	if err != nil {
		return err
	}

	if err := v.containsPath(resolvedPath); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, resolvedPath)
	}

	return nil
}

// ResolveSafePath joins relativePath onto basePath (absolute relativePath
// values are taken as-is) and returns the cleaned result if it stays
// inside the root.
func (v *Validator) ResolveSafePath(basePath, relativePath string) (string, error) {
	fullPath := relativePath
	if !filepath.IsAbs(relativePath) {
		fullPath = filepath.Join(basePath, relativePath)
	}

	cleanPath := filepath.Clean(fullPath)
	if err := v.containsPath(cleanPath); err != nil {
		return "", err
	}

	return cleanPath, nil
}

func (v *Validator) containsPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	if !isSubPath(v.root, filepath.Clean(absPath)) {
		return fmt.Errorf("%w: %s", ErrPathEscape, path)
	}

	return nil
}

// isSubPath checks if child is parent or lies below it.
// Both paths must be absolute and clean.
func isSubPath(parent, child string) bool {
	if parent == child {
		return true
	}

	parentWithSep := parent
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}

	return strings.HasPrefix(child, parentWithSep)
}

// resolveExistingPath evaluates symlinks on the deepest ancestor of path
// that exists and re-attaches the missing tail.
func resolveExistingPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	current := absPath
	var tail []string

	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			parts := append([]string{resolved}, tail...)
			return filepath.Join(parts...), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("cannot resolve symlinks: %w", err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("cannot resolve symlinks: %w", err)
		}

		tail = append([]string{filepath.Base(current)}, tail...)
		current = parent
	}
}
