// Package classify resolves directory children into typed entries. It answers
// one question per call (what is this name inside that directory?) and keeps
// no state between calls, so the same Classifier can serve any traversal.
package classify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Kind is the filesystem type of an entry.
type Kind int

const (
	Regular Kind = iota
	Directory
	Symlink
	Special
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "directory"
	case Symlink:
		return "symlink"
	case Special:
		return "special"
	default:
		return "regular"
	}
}

// specialModes are the mode bits that mark a node as neither file nor directory.
const specialModes = fs.ModeDevice | fs.ModeCharDevice | fs.ModeNamedPipe | fs.ModeSocket | fs.ModeIrregular

// Entry is one child discovered while listing a directory.
type Entry struct {
	Name string
	Path string
	Kind Kind

	// Executable is set for regular files the owner may execute.
	Executable bool

	// LinkTarget holds the raw link contents for symlinks. Broken is set when
	// the link cannot be read or its target does not exist.
	LinkTarget string
	Broken     bool

	// TargetIsDir reports whether a non-broken symlink points at a directory.
	TargetIsDir bool

	Size int64
}

// IsDir reports whether the entry is a real directory (not a link to one).
func (e Entry) IsDir() bool {
	return e.Kind == Directory
}

// AccessError is returned when even a basic lstat of the entry fails.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("unable to stat %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// Classifier resolves entries through a filesystem capability.
type Classifier struct {
	fs afero.Fs
}

// New creates a Classifier backed by fsys. A nil fsys means the OS filesystem.
func New(fsys afero.Fs) *Classifier {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Classifier{fs: fsys}
}

// Classify determines the kind of parent/name. Rules apply in order: symlink,
// directory, executable regular file, special node (device, pipe, socket or
// mount point), plain regular file.
func (c *Classifier) Classify(parent, name string) (Entry, error) {
	path := filepath.Join(parent, name)
	entry := Entry{Name: name, Path: path}

	info, err := c.lstat(path)
	if err != nil {
		return entry, &AccessError{Path: path, Err: err}
	}
	entry.Size = info.Size()
	mode := info.Mode()

	switch {
	case mode&fs.ModeSymlink != 0:
		entry.Kind = Symlink
		c.resolveLink(&entry)
	case mode.IsDir():
		entry.Kind = Directory
	case mode.IsRegular() && mode.Perm()&0o100 != 0:
		entry.Kind = Regular
		entry.Executable = true
	case mode&specialModes != 0 || c.isMountPoint(parent, info):
		entry.Kind = Special
	default:
		entry.Kind = Regular
	}

	return entry, nil
}

// IsHidden reports whether name is a dotfile. It never looks at the filesystem.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func (c *Classifier) lstat(path string) (os.FileInfo, error) {
	if l, ok := c.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return c.fs.Stat(path)
}

func (c *Classifier) resolveLink(entry *Entry) {
	reader, ok := c.fs.(afero.LinkReader)
	if !ok {
		entry.Broken = true
		return
	}

	target, err := reader.ReadlinkIfPossible(entry.Path)
	if err != nil {
		entry.Broken = true
		return
	}
	entry.LinkTarget = target

	// Stat follows the link; a dangling or looping target fails here.
	info, err := c.fs.Stat(entry.Path)
	if err != nil {
		entry.Broken = true
		return
	}
	entry.TargetIsDir = info.IsDir()
}
