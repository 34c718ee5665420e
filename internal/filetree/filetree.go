// Package filetree renders directory hierarchies as text trees. It walks a
// directory depth-first, filters and sorts each level, and produces one Line
// per entry carrying the ancestor glyphs and connector that keep the │ columns
// aligned at any nesting depth. Lines are produced lazily, so output can be
// written while the walk is still in progress.
package filetree

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"github.com/holonoms/dirtree/internal/classify"
	"github.com/holonoms/dirtree/internal/ignore"
	"github.com/holonoms/dirtree/internal/util"
)

const (
	permissionDenied = "[Permission denied]"
	brokenLink       = "[broken link]"
)

// FileTree walks one root directory according to a Config.
type FileTree struct {
	fs         afero.Fs
	cfg        Config
	classifier *classify.Classifier
	log        logrus.FieldLogger

	exclude      ignore.Patterns
	excludeDirs  ignore.Patterns
	excludeFiles ignore.Patterns
	include      ignore.Patterns
	ignored      ignore.Matcher

	fold cases.Caser
}

// Option customizes a FileTree.
type Option func(*FileTree)

// WithLogger sets the logger used for per-directory diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(t *FileTree) {
		t.log = log
	}
}

// New creates a FileTree for cfg. cfg.RootPath must already be resolved (see
// Config.ResolveRoot). The only error comes from reading cfg.IgnoreFile.
func New(fsys afero.Fs, cfg Config, opts ...Option) (*FileTree, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	t := &FileTree{
		fs:           fsys,
		cfg:          cfg,
		classifier:   classify.New(fsys),
		log:          logrus.StandardLogger(),
		exclude:      ignore.Compile(cfg.Exclude),
		excludeDirs:  ignore.Compile(cfg.ExcludeDirs),
		excludeFiles: ignore.Compile(cfg.ExcludeFiles),
		include:      ignore.Compile(cfg.Include),
		fold:         cases.Fold(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if cfg.IgnoreFile != "" {
		m, err := ignore.LoadFile(fsys, cfg.IgnoreFile)
		if err != nil {
			return nil, err
		}
		t.ignored = m
	}

	return t, nil
}

// item is one surviving child of a directory listing. err is set when the
// child could be listed but not classified.
type item struct {
	entry classify.Entry
	err   error
	key   string
}

func (it item) dirLike() bool {
	return it.entry.IsDir() || (it.entry.Kind == classify.Symlink && it.entry.TargetIsDir)
}

// frame is a directory whose entries are being emitted.
type frame struct {
	rel    []string
	depth  int
	glyphs Glyphs
	items  []item
	next   int
}

// Lines returns the rendered tree, root line first. The walk is depth-first
// over an explicit stack of frames, so a directory's subtree is emitted right
// after its own line, before its next sibling. Stopping the range loop stops
// the walk; ranging again starts over.
func (t *FileTree) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		if !yield(t.rootLine()) {
			return
		}
		if !t.cfg.descend(0) {
			return
		}

		var stack []*frame

		// open lists dir and pushes its frame. It reports false when the
		// consumer stopped.
		open := func(dir string, rel []string, depth int, glyphs Glyphs) bool {
			f, diag := t.list(dir, rel, depth, glyphs)
			if diag != nil {
				return yield(*diag)
			}
			if f != nil && len(f.items) > 0 {
				stack = append(stack, f)
			}
			return true
		}

		if !open(t.cfg.RootPath, nil, 0, nil) {
			return
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next == len(top.items) {
				stack = stack[:len(stack)-1]
				continue
			}

			it := top.items[top.next]
			top.next++
			last := top.next == len(top.items)

			if !yield(t.entryLine(top, it, last)) {
				return
			}

			// Symlinked directories are never entered.
			if it.err != nil || !it.entry.IsDir() || !t.cfg.descend(top.depth+1) {
				continue
			}

			rel := append(slices.Clone(top.rel), it.entry.Name)
			if !open(it.entry.Path, rel, top.depth+1, top.glyphs.Push(glyphFor(last))) {
				return
			}
		}
	}
}

func (t *FileTree) rootLine() Line {
	line := Line{
		Kind:      RootLine,
		Depth:     -1,
		Text:      t.cfg.RootName,
		EntryKind: classify.Directory,
		Dir:       true,
	}
	if t.cfg.Color {
		line.Color = ColorDir
	}
	return line
}

// list reads dir and returns its frame of filtered, sorted items. A listing
// failure returns a diagnostic line instead; a vanished directory returns
// neither.
func (t *FileTree) list(dir string, rel []string, depth int, glyphs Glyphs) (*frame, *Line) {
	names, err := t.readNames(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			t.log.WithField("path", dir).Debug("directory vanished before listing")
			return nil, nil
		}
		t.log.WithError(err).WithField("path", dir).Debug("unable to list directory")
		return nil, t.diagnostic(depth, glyphs, err)
	}

	f := &frame{rel: rel, depth: depth, glyphs: glyphs}
	for _, name := range names {
		if classify.IsHidden(name) && !t.cfg.ShowHidden {
			continue
		}

		entry, err := t.classifier.Classify(dir, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			t.log.WithError(err).WithField("path", entry.Path).Debug("unable to classify entry")
		}

		it := item{entry: entry, err: err}
		if !t.keep(it, rel) {
			continue
		}
		it.key = t.sortKey(name)
		f.items = append(f.items, it)
	}

	t.sort(f.items)
	return f, nil
}

func (t *FileTree) readNames(dir string) ([]string, error) {
	d, err := t.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	return d.Readdirnames(-1)
}

// keep applies the filters that need the entry kind. Hidden names are
// dropped earlier, before the entry is classified.
func (t *FileTree) keep(it item, rel []string) bool {
	name := it.entry.Name
	isDir := it.err == nil && it.dirLike()

	if t.cfg.DirsOnly && !isDir {
		return false
	}
	if t.exclude.Match(name, isDir) {
		return false
	}
	if isDir && t.excludeDirs.Match(name, true) {
		return false
	}
	if !isDir && t.excludeFiles.Match(name, false) {
		return false
	}
	if t.ignored != nil && t.ignored.Match(append(slices.Clone(rel), name), isDir) {
		return false
	}
	if !t.include.Empty() && !t.include.Match(name, isDir) {
		return false
	}
	return true
}

func (t *FileTree) sortKey(name string) string {
	if t.cfg.IgnoreCase {
		return t.fold.String(name)
	}
	return name
}

// sort orders items by key. The sort is stable, so entries with equal keys
// keep the order the filesystem listed them in.
func (t *FileTree) sort(items []item) {
	slices.SortStableFunc(items, func(a, b item) int {
		if t.cfg.DirsFirst {
			if ad, bd := a.dirLike(), b.dirLike(); ad != bd {
				if ad {
					return -1
				}
				return 1
			}
		}
		return strings.Compare(a.key, b.key)
	})
}

func (t *FileTree) entryLine(f *frame, it item, last bool) Line {
	line := Line{
		Kind:      EntryLine,
		Depth:     f.depth,
		Glyphs:    f.glyphs,
		Last:      last,
		Text:      t.displayText(f, it),
		EntryKind: it.entry.Kind,
		Dir:       it.err == nil && it.dirLike(),
	}
	if t.cfg.Color {
		line.Color = colorOf(it)
	}
	return line
}

func (t *FileTree) displayText(f *frame, it item) string {
	e := it.entry

	var sb strings.Builder
	if t.cfg.ShowSize && it.err == nil && e.Kind != classify.Directory && e.Kind != classify.Symlink {
		sb.WriteString("[" + util.FormatSize(e.Size) + "]  ")
	}

	if t.cfg.FullPath {
		sb.WriteString(joinDisplay(t.cfg.RootName, f.rel, e.Name))
	} else {
		sb.WriteString(e.Name)
	}

	switch {
	case it.err != nil:
		sb.WriteString(" " + errorMarker(it.err))
	case e.Kind == classify.Symlink && e.LinkTarget == "":
		sb.WriteString(" " + brokenLink)
	case e.Kind == classify.Symlink && e.Broken:
		sb.WriteString(" -> " + e.LinkTarget + " " + brokenLink)
	case e.Kind == classify.Symlink:
		sb.WriteString(" -> " + e.LinkTarget)
	}

	return sb.String()
}

func (t *FileTree) diagnostic(depth int, glyphs Glyphs, err error) *Line {
	line := &Line{
		Kind:   DiagnosticLine,
		Depth:  depth,
		Glyphs: glyphs,
		Last:   true,
		Text:   errorMarker(err),
	}
	if t.cfg.Color {
		line.Color = ColorError
	}
	return line
}

func errorMarker(err error) string {
	if errors.Is(err, fs.ErrPermission) {
		return permissionDenied
	}

	// Path errors repeat the path, which is already on screen.
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return "[Error: " + err.Error() + "]"
}

func colorOf(it item) ColorClass {
	if it.err != nil {
		return ColorError
	}
	switch e := it.entry; {
	case e.Kind == classify.Directory:
		return ColorDir
	case e.Kind == classify.Symlink:
		return ColorLink
	case e.Kind == classify.Special:
		return ColorSpecial
	case e.Executable:
		return ColorExec
	default:
		return ColorNone
	}
}

// joinDisplay joins the root display name with a root-relative path without
// cleaning it, so a root of "." renders as "./a/b".
func joinDisplay(root string, rel []string, name string) string {
	parts := append(slices.Clone(rel), name)
	sep := string(filepath.Separator)
	if strings.HasSuffix(root, sep) {
		return root + strings.Join(parts, sep)
	}
	return root + sep + strings.Join(parts, sep)
}
