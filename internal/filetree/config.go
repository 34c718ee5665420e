package filetree

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Unbounded is the MaxDepth value that disables the depth limit.
const Unbounded = -1

// Config controls one traversal. It is resolved before the walk starts and
// never modified while lines are produced.
type Config struct {
	ShowHidden bool
	DirsOnly   bool

	// MaxDepth is the number of entry levels shown below the root. Zero shows
	// only the root line; a negative value means no limit.
	MaxDepth int

	// Exclude globs drop matching files and directories. ExcludeDirs and
	// ExcludeFiles only apply to their own kind.
	Exclude      []string
	ExcludeDirs  []string
	ExcludeFiles []string

	// Include globs, when set, keep only entries matching one of them.
	Include []string

	// IgnoreFile is a gitignore-syntax file applied to root-relative paths.
	IgnoreFile string

	IgnoreCase bool
	DirsFirst  bool

	Color    bool
	FullPath bool
	ShowSize bool

	// RootName is printed on the root line and prefixes entries in full-path
	// mode. RootPath is the absolute directory that gets listed.
	RootName string
	RootPath string
}

// RootError reports a traversal root that cannot be walked at all.
type RootError struct {
	Path  string
	Cause string
	Err   error
}

func (e *RootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Cause, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Cause)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// ResolveRoot validates dir and fills RootName and RootPath. The root name is
// the base name of dir, or dir itself (cleaned) in full-path mode so that
// entries read as real paths.
func (c Config) ResolveRoot(fsys afero.Fs, dir string) (Config, error) {
	if dir == "" {
		dir = "."
	}
	clean := filepath.Clean(dir)

	abs, err := filepath.Abs(clean)
	if err != nil {
		return c, &RootError{Path: dir, Cause: "invalid path", Err: err}
	}

	info, err := fsys.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return c, &RootError{Path: dir, Cause: "no such directory"}
	case err != nil:
		return c, &RootError{Path: dir, Cause: "unable to access", Err: err}
	case !info.IsDir():
		return c, &RootError{Path: dir, Cause: "not a directory"}
	}

	c.RootPath = abs
	if c.FullPath {
		c.RootName = clean
	} else {
		c.RootName = rootBase(clean, abs)
	}

	return c, nil
}

func rootBase(clean, abs string) string {
	if clean == "." || clean == ".." || strings.HasSuffix(clean, string(filepath.Separator)) {
		return clean
	}
	return filepath.Base(abs)
}

func (c Config) descend(depth int) bool {
	return c.MaxDepth < 0 || depth < c.MaxDepth
}
