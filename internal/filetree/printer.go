package filetree

import (
	"context"
	"fmt"
	"io"

	"github.com/holonoms/dirtree/internal/util"
)

// Report counts the entries a Printer has written.
type Report struct {
	Directories int
	Files       int
}

func (r Report) String() string {
	return util.Plural(r.Directories, "directory", "directories") + ", " +
		util.Plural(r.Files, "file", "files")
}

// Printer streams lines to a writer, one per row, and keeps a Report.
type Printer struct {
	w      io.Writer
	report Report
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes a single line.
func (p *Printer) Print(line Line) error {
	if line.Kind == EntryLine {
		if line.Dir {
			p.report.Directories++
		} else {
			p.report.Files++
		}
	}

	_, err := io.WriteString(p.w, line.String()+"\n")
	return err
}

// PrintTree writes every line of t. It stops early when ctx is cancelled and
// returns the context error; lines already written stay written.
func (p *Printer) PrintTree(ctx context.Context, t *FileTree) error {
	for line := range t.Lines() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Print(line); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}
	}
	return nil
}

// Report returns the counts so far.
func (p *Printer) Report() Report {
	return p.report
}

// WriteReport writes the trailing "N directories, M files" summary.
func (p *Printer) WriteReport() error {
	_, err := fmt.Fprintf(p.w, "\n%s\n", p.report)
	return err
}
