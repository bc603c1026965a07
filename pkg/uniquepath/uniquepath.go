// Package uniquepath picks a file path that does not collide with an
// existing entry. A free path is returned unchanged; an occupied path
// "dir/name.ext" becomes "dir/name-N.ext" where N is one more than the
// largest N already used for that name in the directory.
//
// Resolution is not atomic. Two callers resolving the same path before
// either creates the result get the same answer; use Claim when the
// result must also be created.
package uniquepath

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"fskit/internal/logging"
	"fskit/pkg/fsys"
)

// DefaultMaxClaimAttempts bounds how often Claim re-resolves after losing
// a creation race.
const DefaultMaxClaimAttempts = 16

// ErrClaimExhausted is returned when Claim loses every creation attempt.
var ErrClaimExhausted = errors.New("no unique path could be claimed")

// pathChecker is implemented by filesystems that refuse some paths
// outright, such as fsys.Contained. Their Exists reports a refused path as
// absent, so Resolve must ask first.
type pathChecker interface {
	CheckPath(path string) error
}

// Resolver resolves unique paths against a filesystem.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	fs               fsys.FS
	logger           *slog.Logger
	maxClaimAttempts int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxClaimAttempts overrides DefaultMaxClaimAttempts. Values below 1
// are ignored.
func WithMaxClaimAttempts(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxClaimAttempts = n
		}
	}
}

// New creates a Resolver working on fs.
func New(fs fsys.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fs:               fs,
		logger:           logging.Discard(),
		maxClaimAttempts: DefaultMaxClaimAttempts,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve resolves path against the real filesystem.
func Resolve(path string) (string, error) {
	return New(fsys.NewOS()).Resolve(path)
}

// Resolve returns path made absolute if nothing exists there. Otherwise
// it lists the parent directory once and returns the next numbered
// variant. A listing failure is returned wrapped in
// fsys.ErrDirectoryAccess. A path the filesystem refuses, such as one
// outside a fsys.Contained root, fails with that filesystem's error.
//
// The base name is the file name minus its extension, without stripping an
// existing "-N": resolving "foo-1.txt" yields "foo-1-1.txt", not
// "foo-2.txt".
func (r *Resolver) Resolve(path string) (string, error) {
	p, err := parsePath(path)
	if err != nil {
		return "", err
	}

	if c, ok := r.fs.(pathChecker); ok {
		if err := c.CheckPath(p.abs); err != nil {
			return "", err
		}
	}

	if !r.fs.Exists(p.abs) {
		r.logger.Debug("path is free", "path", p.abs)
		return p.abs, nil
	}

	entries, err := r.fs.ListEntries(p.dir)
	if err != nil {
		if !errors.Is(err, fsys.ErrDirectoryAccess) {
			err = fmt.Errorf("%w: %w", fsys.ErrDirectoryAccess, err)
		}
		return "", fmt.Errorf("list %s: %w", p.dir, err)
	}

	if len(entries) == 0 {
		return p.abs, nil
	}

	highest := highestSuffix(entries, p.pattern())
	next := p.withSuffix(highest + 1)

	r.logger.Debug("path is taken",
		"path", p.abs,
		"highest_suffix", highest,
		"resolved", next,
	)

	return next, nil
}

// Claim resolves path and creates an empty file at the result with an
// exclusive create. If another writer takes the name first it resolves
// again, up to the configured number of attempts. The parent directory
// must already exist.
func (r *Resolver) Claim(path string) (string, error) {
	for attempt := 1; attempt <= r.maxClaimAttempts; attempt++ {
		candidate, err := r.Resolve(path)
		if err != nil {
			return "", err
		}

		err = r.fs.CreateFile(candidate, true)
		if err == nil {
			r.logger.Debug("claimed path", "path", candidate, "attempt", attempt)
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("claim %s: %w", candidate, err)
		}

		r.logger.Debug("lost claim race", "path", candidate, "attempt", attempt)
	}

	return "", fmt.Errorf("%w: %s after %d attempts", ErrClaimExhausted, path, r.maxClaimAttempts)
}

// parsedPath is an absolute path split for suffix numbering.
type parsedPath struct {
	abs  string // absolute, cleaned form of the input
	dir  string // directory containing the entry
	base string // file name without extension
	ext  string // final dotted suffix, possibly empty
}

func parsePath(path string) (parsedPath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return parsedPath{}, fmt.Errorf("%w: resolve %s: %w", fsys.ErrIO, path, err)
	}

	base, ext := splitExt(filepath.Base(abs))

	return parsedPath{
		abs:  abs,
		dir:  filepath.Dir(abs),
		base: base,
		ext:  ext,
	}, nil
}

// splitExt splits name at its final dot. A leading dot does not start an
// extension, so ".gitignore" has none.
func splitExt(name string) (base, ext string) {
	ext = filepath.Ext(name)
	if ext == name {
		return name, ""
	}

	return strings.TrimSuffix(name, ext), ext
}

// pattern matches "<base>-<digits><ext>" exactly and captures the digits.
func (p parsedPath) pattern() *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(p.base) + `-(\d+)` + regexp.QuoteMeta(p.ext) + "$")
}

func (p parsedPath) withSuffix(n uint64) string {
	return filepath.Join(p.dir, p.base+"-"+strconv.FormatUint(n, 10)+p.ext)
}

// highestSuffix returns the largest number used by an entry matching
// pattern, or 0 if none match. Numbers that do not fit below
// math.MaxUint64 are ignored.
func highestSuffix(entries []string, pattern *regexp.Regexp) uint64 {
	var suffixes []uint64

	for _, name := range entries {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil || n == math.MaxUint64 {
			continue
		}

		suffixes = append(suffixes, n)
	}

	if len(suffixes) == 0 {
		return 0
	}

	slices.Sort(suffixes)

	return suffixes[len(suffixes)-1]
}
