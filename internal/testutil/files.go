package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateFile writes content to path, creating parent directories.
func CreateFile(t *testing.T, path, content string) {
	t.Helper()
	CreateFileBytes(t, path, []byte(content))
}

// CreateFileBytes writes raw content to path, creating parent directories.
func CreateFileBytes(t *testing.T, path string, content []byte) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

// CreateFiles creates an empty file for every name inside dir.
func CreateFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		CreateFile(t, filepath.Join(dir, name), "")
	}
}

// EntryNames returns the sorted entry names of dir.
func EntryNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
