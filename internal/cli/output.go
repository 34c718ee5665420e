package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// output is where the rendered tree goes.
type output struct {
	path     string
	w        io.Writer
	terminal bool
	close    func() error
}

// newOutput describes where the tree goes: the file at path, or stdout when
// path is empty. The file is not created until open is called.
func newOutput(path string, stdout io.Writer) *output {
	out := &output{path: path, w: stdout, close: func() error { return nil }}
	if path != "" {
		return out
	}
	if f, ok := stdout.(*os.File); ok {
		out.terminal = isTerminal(f)
		// Translates ANSI escapes on legacy Windows consoles.
		out.w = colorable.NewColorable(f)
	}
	return out
}

// open creates the output file. Failing to open it is fatal and happens
// before any traversal.
func (o *output) open() error {
	if o.path == "" {
		return nil
	}
	f, err := os.Create(o.path)
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	o.w = f
	o.close = f.Close
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor decides color once per run. auto colors only interactive
// terminals and honors NO_COLOR.
func useColor(mode string, out *output) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		_, noColor := os.LookupEnv("NO_COLOR")
		return out.terminal && !noColor
	}
}

// newLogger creates the diagnostics logger. An invalid level falls back to
// warn with a warning.
func newLogger(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'warn'", level)
		parsed = logrus.WarnLevel
	}
	logger.SetLevel(parsed)

	return logger
}
