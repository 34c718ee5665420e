package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/holonoms/dirtree/internal/config"
	"github.com/holonoms/dirtree/internal/filetree"
)

// runTree prints one tree per requested directory. Every root and the ignore
// file are checked before the output file is created. Stored defaults that
// cannot be read are skipped with a warning.
func runTree(cmd *cobra.Command, opts *Options) error {
	store, storeErr := config.New(opts.projectDir())

	v, err := loadSettings(cmd, store)
	if err != nil {
		return err
	}
	if err := opts.resolve(v); err != nil {
		return err
	}

	logger := newLogger(opts.LogLevel, cmd.ErrOrStderr())
	if storeErr != nil {
		logger.WithError(storeErr).Warn("Ignoring stored defaults")
	}

	dirs := opts.Directories
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	fsys := afero.NewOsFs()
	base := opts.treeConfig(false)

	cfgs := make([]filetree.Config, 0, len(dirs))
	for _, dir := range dirs {
		cfg, err := base.ResolveRoot(fsys, dir)
		if err != nil {
			return err
		}
		cfgs = append(cfgs, cfg)
	}

	out := newOutput(opts.OutputFile, cmd.OutOrStdout())
	color := useColor(opts.Color, out)

	trees := make([]*filetree.FileTree, 0, len(cfgs))
	for i, cfg := range cfgs {
		cfg.Color = color
		tree, err := filetree.New(fsys, cfg, filetree.WithLogger(logger.WithField("root", dirs[i])))
		if err != nil {
			return err
		}
		trees = append(trees, tree)
	}

	if err := out.open(); err != nil {
		return err
	}

	err = printTrees(cmd.Context(), out, trees, !opts.NoReport, logger)
	if closeErr := out.close(); err == nil && closeErr != nil {
		err = fmt.Errorf("unable to close output: %w", closeErr)
	}
	return err
}

func printTrees(ctx context.Context, out *output, trees []*filetree.FileTree, report bool, logger logrus.FieldLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	w := bufio.NewWriter(out.w)
	// Whatever was rendered before an interrupt still reaches the output.
	defer w.Flush()

	p := filetree.NewPrinter(w)
	for _, tree := range trees {
		if err := p.PrintTree(ctx, tree); err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("interrupted: %w", err)
			}
			return err
		}
	}

	if report {
		if err := p.WriteReport(); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	logger.WithField("report", p.Report().String()).Debug("tree complete")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
