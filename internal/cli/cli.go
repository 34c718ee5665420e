// Package cli provides the command-line interface for dirtree.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Default version for development/non-release builds.
	// Release builds override this with -ldflags "-X ...cli.version=<tag>".
	version = "dev"
)

// NewRootCmd creates the root command with all subcommands. Flag values are
// written into opts.
func NewRootCmd(opts *Options) *cobra.Command {
	if opts == nil {
		opts = &Options{}
	}

	rootCmd := &cobra.Command{
		Use:          "dirtree [directory...]",
		Short:        "Print directory trees",
		Long:         "Recursively list directories as an indented tree, the way tree(1) does.",
		Version:      version,
		SilenceUsage: true,
		// NB: ArbitraryArgs lets `dirtree some/dir` reach RunE. Without it cobra
		// rejects directory names as unknown subcommands.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Directories = args
			return runTree(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.All, "all", "a", false, "Include hidden entries")
	flags.BoolVarP(&opts.DirsOnly, "dirs-only", "d", false, "List directories only")
	flags.IntVarP(&opts.Level, "level", "L", -1, "Descend only N levels deep (negative for no limit)")
	flags.StringArrayVarP(&opts.Exclude, "exclude", "I", nil, "Exclude entries matching a glob (repeatable)")
	flags.StringArrayVar(&opts.ExcludeDirs, "exclude-dir", nil, "Exclude directories matching a glob (repeatable)")
	flags.StringArrayVar(&opts.ExcludeFiles, "exclude-file", nil, "Exclude files matching a glob (repeatable)")
	flags.StringVarP(&opts.Pattern, "pattern", "P", "", "Only list entries matching a glob; separate alternatives with |")
	flags.StringVar(&opts.IgnoreFile, "ignore-file", "", "Skip paths listed in a gitignore-style file")
	flags.BoolVarP(&opts.FullPath, "full-path", "f", false, "Print the full path of each entry")
	flags.BoolVar(&opts.IgnoreCase, "ignore-case", false, "Sort names case-insensitively")
	flags.BoolVar(&opts.DirsFirst, "dirsfirst", false, "List directories before files")
	flags.BoolVarP(&opts.ShowSize, "size", "s", false, "Print the size of each file")
	flags.BoolVar(&opts.NoReport, "noreport", false, "Omit the directory and file count")
	flags.StringVar(&opts.Color, "color", "auto", "Colorize output: always, auto or never")
	flags.StringVarP(&opts.OutputFile, "output", "o", "", "Write the tree to a file instead of stdout")

	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newConfigCmd(opts),
	)

	return rootCmd
}
