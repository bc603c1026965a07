package uniquepath

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fskit/internal/testutil"
	"fskit/pkg/fsys"
	"fskit/pkg/safepath"
)

var dataDir = filepath.FromSlash("/data")

// memoryWith returns an in-memory filesystem holding empty files with the
// given names inside dataDir.
func memoryWith(t *testing.T, names ...string) *fsys.Afero {
	t.Helper()

	mem := fsys.NewMemory()
	require.NoError(t, mem.MkdirAll(dataDir))
	for _, name := range names {
		require.NoError(t, mem.WriteFile(filepath.Join(dataDir, name), nil))
	}

	return mem
}

// listFailFS reports every path as existing and fails every listing.
type listFailFS struct {
	fsys.FS
	err   error
	lists int
}

func (f *listFailFS) Exists(string) bool { return true }

func (f *listFailFS) ListEntries(string) ([]string, error) {
	f.lists++
	return nil, f.err
}

// countingFS counts ListEntries calls on the wrapped FS.
type countingFS struct {
	fsys.FS
	lists int
}

func (c *countingFS) ListEntries(dir string) ([]string, error) {
	c.lists++
	return c.FS.ListEntries(dir)
}

// emptyListingFS claims every path exists but lists nothing.
type emptyListingFS struct {
	fsys.FS
}

func (emptyListingFS) Exists(string) bool { return true }

func (emptyListingFS) ListEntries(string) ([]string, error) { return []string{}, nil }

func TestResolve_FreePathReturnedUnchanged(t *testing.T) {
	t.Parallel()

	counting := &countingFS{FS: memoryWith(t, "other.txt")}
	r := New(counting)

	got, err := r.Resolve(filepath.Join(dataDir, "foo.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "foo.txt"), got)
	assert.Zero(t, counting.lists, "no listing when the target is free")
}

func TestResolve_RelativePathIsAbsolutized(t *testing.T) {
	t.Parallel()

	r := New(fsys.NewMemory())

	got, err := r.Resolve(filepath.Join("some", "dir", "foo.txt"))
	require.NoError(t, err)

	want, err := filepath.Abs(filepath.Join("some", "dir", "foo.txt"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolve_MissingDirectoryIsFree(t *testing.T) {
	t.Parallel()

	r := New(fsys.NewOS())
	target := filepath.Join(t.TempDir(), "missing", "foo.txt")

	got, err := r.Resolve(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestResolve_Suffixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		target   string
		want     string
	}{
		{"first collision", []string{"foo.txt"}, "foo.txt", "foo-1.txt"},
		{"max plus one", []string{"foo.txt", "foo-1.txt", "foo-2.txt", "foo-5.txt"}, "foo.txt", "foo-6.txt"},
		{"gaps are not filled", []string{"foo.txt", "foo-2.txt"}, "foo.txt", "foo-3.txt"},
		{"numeric not lexicographic", []string{"foo.txt", "foo-9.txt", "foo-10.txt"}, "foo.txt", "foo-11.txt"},
		{"leading zeros parse", []string{"foo.txt", "foo-007.txt"}, "foo.txt", "foo-8.txt"},
		{"other extensions ignored", []string{"foo.txt", "foo-4.md", "foo-3.txt.bak"}, "foo.txt", "foo-1.txt"},
		{"other bases ignored", []string{"foo.txt", "foobar-4.txt", "xfoo-5.txt"}, "foo.txt", "foo-1.txt"},
		{"non digit suffix ignored", []string{"foo.txt", "foo-a.txt", "foo-.txt", "foo-1a.txt"}, "foo.txt", "foo-1.txt"},
		{"no extension", []string{"Makefile", "Makefile-2"}, "Makefile", "Makefile-3"},
		{"only final extension", []string{"archive.tar.gz", "archive.tar-1.gz"}, "archive.tar.gz", "archive.tar-2.gz"},
		{"dotfile has no extension", []string{".gitignore"}, ".gitignore", ".gitignore-1"},
		{"nested series on suffixed name", []string{"foo.txt", "foo-1.txt", "foo-2.txt"}, "foo-1.txt", "foo-1-1.txt"},
		{"regex metacharacters are literal", []string{"a+b (1).txt", "a+b (1)-3.txt", "aab (1)-9.txt"}, "a+b (1).txt", "a+b (1)-4.txt"},
		{"overflowing suffix ignored", []string{"foo.txt", "foo-2.txt", "foo-99999999999999999999999.txt"}, "foo.txt", "foo-3.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := New(memoryWith(t, tt.existing...))

			got, err := r.Resolve(filepath.Join(dataDir, tt.target))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dataDir, tt.want), got)
		})
	}
}

func TestResolve_DirectoriesCountAsCandidates(t *testing.T) {
	t.Parallel()

	mem := memoryWith(t, "foo.txt")
	require.NoError(t, mem.MkdirAll(filepath.Join(dataDir, "foo-4.txt")))

	got, err := New(mem).Resolve(filepath.Join(dataDir, "foo.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "foo-5.txt"), got)
}

func TestResolve_ExistingDirectoryTarget(t *testing.T) {
	t.Parallel()

	mem := memoryWith(t)
	require.NoError(t, mem.MkdirAll(filepath.Join(dataDir, "backup")))

	got, err := New(mem).Resolve(filepath.Join(dataDir, "backup"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "backup-1"), got)
}

func TestResolve_RepeatableWithoutCreation(t *testing.T) {
	t.Parallel()

	mem := memoryWith(t, "foo.txt", "foo-1.txt")
	r := New(mem)
	target := filepath.Join(dataDir, "foo.txt")

	first, err := r.Resolve(target)
	require.NoError(t, err)
	second, err := r.Resolve(target)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, mem.Exists(first), "resolution must not create anything")
}

func TestResolve_EmptyListingFallsBack(t *testing.T) {
	t.Parallel()

	target := filepath.Join(dataDir, "foo.txt")

	got, err := New(emptyListingFS{}).Resolve(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestResolve_ListingFailurePropagates(t *testing.T) {
	t.Parallel()

	cause := &fs.PathError{Op: "open", Path: dataDir, Err: fs.ErrPermission}

	t.Run("unwrapped error gets the category", func(t *testing.T) {
		t.Parallel()

		failing := &listFailFS{err: cause}
		_, err := New(failing).Resolve(filepath.Join(dataDir, "foo.txt"))

		require.Error(t, err)
		assert.ErrorIs(t, err, fsys.ErrDirectoryAccess)
		assert.ErrorIs(t, err, fs.ErrPermission)
		assert.Equal(t, 1, failing.lists)
	})

	t.Run("categorized error is not double wrapped", func(t *testing.T) {
		t.Parallel()

		failing := &listFailFS{err: errors.Join(fsys.ErrDirectoryAccess, cause)}
		_, err := New(failing).Resolve(filepath.Join(dataDir, "foo.txt"))

		require.Error(t, err)
		assert.ErrorIs(t, err, fsys.ErrDirectoryAccess)
		assert.Equal(t, 1, strings.Count(err.Error(), fsys.ErrDirectoryAccess.Error()))
	})
}

func TestResolve_OSListingFailure(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	dir := filepath.Join(t.TempDir(), "locked")
	testutil.CreateFile(t, filepath.Join(dir, "foo.txt"), "x")
	require.NoError(t, os.Chmod(dir, 0o100))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	_, err := Resolve(filepath.Join(dir, "foo.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fsys.ErrDirectoryAccess)
}

func TestResolve_ContainedRefusesExistingPathOutsideRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "root")
	testutil.CreateFiles(t, root, "inside.txt")
	outside := filepath.Join(base, "taken.txt")
	testutil.CreateFile(t, outside, "x")

	v, err := safepath.New(root)
	require.NoError(t, err)
	r := New(fsys.NewContained(fsys.NewOS(), v))

	got, err := r.Resolve(outside)
	require.Error(t, err)
	assert.ErrorIs(t, err, safepath.ErrPathEscape)
	assert.Empty(t, got)

	got, err = r.Resolve(filepath.Join(v.Root(), "inside.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Root(), "inside-1.txt"), got)
}

func TestNew_DefaultsAreQuiet(t *testing.T) {
	t.Parallel()

	r := New(fsys.NewMemory(), WithLogger(nil), WithMaxClaimAttempts(0))
	assert.False(t, r.logger.Enabled(t.Context(), slog.LevelError))
	assert.Equal(t, DefaultMaxClaimAttempts, r.maxClaimAttempts)
}

func TestResolve_LogsAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(memoryWith(t, "foo.txt"), WithLogger(logger)).Resolve(filepath.Join(dataDir, "foo.txt"))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "path is taken")
	assert.Contains(t, buf.String(), "highest_suffix=0")
}

func TestSplitExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, base, ext string
	}{
		{"foo.txt", "foo", ".txt"},
		{"foo", "foo", ""},
		{".bashrc", ".bashrc", ""},
		{".config.yaml", ".config", ".yaml"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"trailing.", "trailing", "."},
	}

	for _, tt := range tests {
		base, ext := splitExt(tt.name)
		assert.Equal(t, tt.base, base, tt.name)
		assert.Equal(t, tt.ext, ext, tt.name)
	}
}

func TestClaim_FreePathIsCreated(t *testing.T) {
	t.Parallel()

	mem := memoryWith(t)
	target := filepath.Join(dataDir, "report.pdf")

	got, err := New(mem).Claim(target)
	require.NoError(t, err)
	assert.Equal(t, target, got)
	assert.True(t, mem.Exists(target))
}

func TestClaim_TakenPathCreatesNextSuffix(t *testing.T) {
	t.Parallel()

	mem := memoryWith(t, "report.pdf", "report-3.pdf")

	got, err := New(mem).Claim(filepath.Join(dataDir, "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "report-4.pdf"), got)
	assert.True(t, mem.Exists(got))
}

// racingFS creates the resolved name behind the caller's back before the
// first n exclusive creates, simulating a competing writer.
type racingFS struct {
	fsys.FS
	races int
}

func (r *racingFS) CreateFile(path string, exclusive bool) error {
	if r.races > 0 {
		r.races--
		if err := r.FS.CreateFile(path, false); err != nil {
			return err
		}
	}

	return r.FS.CreateFile(path, exclusive)
}

func TestClaim_RetriesAfterLosingRace(t *testing.T) {
	t.Parallel()

	racing := &racingFS{FS: memoryWith(t, "a.txt"), races: 2}

	got, err := New(racing).Claim(filepath.Join(dataDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "a-3.txt"), got)
}

func TestClaim_Exhausted(t *testing.T) {
	t.Parallel()

	racing := &racingFS{FS: memoryWith(t, "a.txt"), races: 100}

	_, err := New(racing, WithMaxClaimAttempts(3)).Claim(filepath.Join(dataDir, "a.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClaimExhausted)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestClaim_OtherCreateErrorsStop(t *testing.T) {
	t.Parallel()

	r := New(fsys.NewOS())
	target := filepath.Join(t.TempDir(), "missing-parent", "a.txt")

	_, err := r.Claim(target)
	require.Error(t, err)
	assert.ErrorIs(t, err, fsys.ErrIO)
	assert.NotErrorIs(t, err, ErrClaimExhausted)
}

func TestClaim_ConcurrentClaimsAreDistinct(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.CreateFile(t, filepath.Join(dir, "out.log"), "")

	const workers = 8
	r := New(fsys.NewOS())

	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = r.Claim(filepath.Join(dir, "out.log"))
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for i := range workers {
		require.NoError(t, errs[i])
		assert.False(t, seen[results[i]], "duplicate claim %s", results[i])
		seen[results[i]] = true
	}

	names, err := fsys.NewOS().ListEntries(dir)
	require.NoError(t, err)
	assert.Len(t, names, workers+1)
}
