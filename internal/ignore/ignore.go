// Package ignore matches entry names and paths against glob patterns. Exclude
// and include globs given on the command line are matched against bare entry
// names, while ignore files use gitignore syntax and are matched against paths
// relative to the traversal root.
package ignore

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/spf13/afero"
)

// Patterns is a compiled set of name globs. The zero value matches nothing.
type Patterns struct {
	patterns []gitignore.Pattern
}

// Compile parses each glob. A trailing "/" restricts a glob to directories.
// Empty globs are skipped. Unlike ignore files, a leading "!" or "#" is part
// of the name.
func Compile(globs []string) Patterns {
	var p Patterns
	for _, glob := range globs {
		if strings.TrimSpace(glob) == "" {
			continue
		}
		if strings.HasPrefix(glob, "!") || strings.HasPrefix(glob, "#") {
			glob = `\` + glob
		}
		p.patterns = append(p.patterns, gitignore.ParsePattern(glob, nil))
	}
	return p
}

// Empty reports whether no pattern was compiled.
func (p Patterns) Empty() bool {
	return len(p.patterns) == 0
}

// Match reports whether name matches any of the globs.
func (p Patterns) Match(name string, isDir bool) bool {
	path := []string{name}
	for _, pattern := range p.patterns {
		if pattern.Match(path, isDir) == gitignore.Exclude {
			return true
		}
	}
	return false
}

// SplitAlternatives splits a "a|b|c" pattern list into its parts.
func SplitAlternatives(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Matcher decides whether a root-relative path is ignored.
type Matcher interface {
	Match(path []string, isDir bool) bool
}

// LoadFile reads a gitignore-syntax file from fsys into a Matcher.
func LoadFile(fsys afero.Fs, path string) (Matcher, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	defer f.Close()

	patterns, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ignore file %s: %w", path, err)
	}

	return gitignore.NewMatcher(patterns), nil
}

// Parse reads gitignore lines from r, skipping blanks and comments.
func Parse(r io.Reader) ([]gitignore.Pattern, error) {
	var patterns []gitignore.Pattern

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}
