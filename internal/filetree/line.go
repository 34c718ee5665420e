package filetree

import (
	"strings"

	"github.com/holonoms/dirtree/internal/classify"
)

// Tree drawing pieces. Every piece is exactly four columns wide.
const (
	connector     = "├── "
	connectorLast = "└── "
	indentBar     = "│   "
	indentBlank   = "    "
)

// Glyph is one ancestor column of a line prefix.
type Glyph uint8

const (
	// Blank means the ancestor at that level had no siblings left.
	Blank Glyph = iota
	// Bar means the ancestor at that level still has siblings below it.
	Bar
)

// Glyphs is the ancestor prefix of a line, outermost level first. Values are
// never modified in place; Push returns a fresh copy.
type Glyphs []Glyph

// Push returns a copy of g extended with one more level.
func (g Glyphs) Push(next Glyph) Glyphs {
	out := make(Glyphs, len(g)+1)
	copy(out, g)
	out[len(g)] = next
	return out
}

func (g Glyphs) String() string {
	var sb strings.Builder
	for _, glyph := range g {
		if glyph == Bar {
			sb.WriteString(indentBar)
		} else {
			sb.WriteString(indentBlank)
		}
	}
	return sb.String()
}

// glyphFor returns the column a child level inherits from its parent.
func glyphFor(parentLast bool) Glyph {
	if parentLast {
		return Blank
	}
	return Bar
}

// LineKind tells the root line, entry lines and inline diagnostics apart.
type LineKind uint8

const (
	RootLine LineKind = iota
	EntryLine
	DiagnosticLine
)

// ColorClass is the rendering annotation of a line.
type ColorClass uint8

const (
	ColorNone ColorClass = iota
	ColorDir
	ColorExec
	ColorLink
	ColorSpecial
	ColorError
)

const reset = "\x1b[0m"

// Escape returns the ANSI sequences that bracket text of the given class.
func Escape(c ColorClass) (start, end string) {
	switch c {
	case ColorDir:
		return "\x1b[1;34m", reset
	case ColorExec:
		return "\x1b[1;32m", reset
	case ColorLink:
		return "\x1b[1;36m", reset
	case ColorSpecial:
		return "\x1b[1;33m", reset
	case ColorError:
		return "\x1b[31m", reset
	default:
		return "", ""
	}
}

// Line is one rendered row of the tree.
type Line struct {
	Kind LineKind

	// Depth is 0 for the root's direct children and -1 for the root line.
	// len(Glyphs) always equals Depth for entry and diagnostic lines.
	Depth  int
	Glyphs Glyphs
	Last   bool

	Text  string
	Color ColorClass

	// EntryKind and Dir describe the entry behind an EntryLine. Dir is also
	// set for symlinks that point at directories.
	EntryKind classify.Kind
	Dir       bool
}

// String renders the line with its prefix, connector and color escapes.
func (l Line) String() string {
	start, end := Escape(l.Color)
	if l.Kind == RootLine {
		return start + l.Text + end
	}

	conn := connector
	if l.Last {
		conn = connectorLast
	}
	return l.Glyphs.String() + conn + start + l.Text + end
}
