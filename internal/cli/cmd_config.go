package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/holonoms/dirtree/internal/config"
)

// setting is a persisted default for one of the tree flags.
type setting struct {
	Key     string
	Usage   string
	Default string
	Choices []string // offered by shell completion
	Check   func(string) error
}

var boolChoices = []string{"true", "false"}

// settings lists every key the config command accepts. Each key mirrors a flag
// of the root command (see flagKeys).
var settings = []setting{
	{Key: "tree.all", Usage: "show hidden entries (-a)", Default: "false", Choices: boolChoices, Check: checkBool},
	{Key: "tree.dirs_only", Usage: "list directories only (-d)", Default: "false", Choices: boolChoices, Check: checkBool},
	{Key: "tree.level", Usage: "depth limit, negative for none (-L)", Default: "-1", Check: checkInt},
	{Key: "tree.exclude", Usage: "comma-separated globs to hide (-I)", Default: ""},
	{Key: "tree.ignore_case", Usage: "case-insensitive sort (--ignore-case)", Default: "false", Choices: boolChoices, Check: checkBool},
	{Key: "tree.dirs_first", Usage: "directories before files (--dirsfirst)", Default: "false", Choices: boolChoices, Check: checkBool},
	{Key: "tree.noreport", Usage: "skip the final count (--noreport)", Default: "false", Choices: boolChoices, Check: checkBool},
	{Key: "tree.color", Usage: "color mode, shared by all directories (--color)", Default: ColorAuto, Choices: []string{ColorAlways, ColorAuto, ColorNever}, Check: checkColor},
}

func newConfigCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change stored defaults for tree flags",
		Long: "Stored defaults apply whenever the matching flag is not given. " +
			"tree.color is kept in the user config directory; every other key " +
			"is kept in " + config.ProjectFile + " of the current directory.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show every key with its value and where it comes from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runConfigList(cmd.OutOrStdout(), opts.projectDir())
			},
		},
		&cobra.Command{
			Use:               "get <key>",
			Short:             "Show the value of one key",
			Args:              cobra.ExactArgs(1),
			ValidArgsFunction: completeKey,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigGet(cmd.OutOrStdout(), opts.projectDir(), args[0])
			},
		},
		&cobra.Command{
			Use:               "set <key> <value>",
			Short:             "Store a default",
			Args:              cobra.ExactArgs(2),
			ValidArgsFunction: completeKeyValue,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(cmd.OutOrStdout(), opts.projectDir(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:               "unset <key>",
			Short:             "Drop a stored default",
			Args:              cobra.ExactArgs(1),
			ValidArgsFunction: completeKey,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigUnset(cmd.OutOrStdout(), opts.projectDir(), args[0])
			},
		},
	)

	return cmd
}

func runConfigList(w io.Writer, projectDir string) error {
	store, err := config.New(projectDir)
	if err != nil {
		return fmt.Errorf("reading stored defaults: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tFROM\tMEANING")
	for _, s := range settings {
		value, from := resolveStored(store, s)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Key, displayValue(value), from, s.Usage)
	}
	return tw.Flush()
}

func runConfigGet(w io.Writer, projectDir, key string) error {
	s, err := lookupSetting(key)
	if err != nil {
		return err
	}

	store, err := config.New(projectDir)
	if err != nil {
		return fmt.Errorf("reading stored defaults: %w", err)
	}

	value, from := resolveStored(store, *s)
	fmt.Fprintf(w, "%s: %s (%s)\n", key, displayValue(value), from)
	return nil
}

func runConfigSet(w io.Writer, projectDir, key, value string) error {
	s, err := lookupSetting(key)
	if err != nil {
		return err
	}
	if s.Check != nil {
		if err := s.Check(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	store, err := config.New(projectDir)
	if err != nil {
		return fmt.Errorf("reading stored defaults: %w", err)
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}

	fmt.Fprintf(w, "%s: %s (%s)\n", key, displayValue(value), scope(store, key))
	return nil
}

func runConfigUnset(w io.Writer, projectDir, key string) error {
	s, err := lookupSetting(key)
	if err != nil {
		return err
	}

	store, err := config.New(projectDir)
	if err != nil {
		return fmt.Errorf("reading stored defaults: %w", err)
	}
	if err := store.Delete(key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}

	fmt.Fprintf(w, "%s: %s (default)\n", key, displayValue(s.Default))
	return nil
}

// MARK: Helpers

func lookupSetting(key string) (*setting, error) {
	for i := range settings {
		if settings[i].Key == key {
			return &settings[i], nil
		}
	}
	return nil, fmt.Errorf("no setting named %q (try 'dirtree config list')", key)
}

// resolveStored returns the stored value of s and its origin, falling back to
// the built-in default.
func resolveStored(store *config.Config, s setting) (value, from string) {
	if !store.Has(s.Key) {
		return s.Default, "default"
	}
	return store.Get(s.Key), scope(store, s.Key)
}

func scope(store *config.Config, key string) string {
	if store.IsGlobalKey(key) {
		return "user"
	}
	return "project"
}

func displayValue(value string) string {
	if value == "" {
		return `""`
	}
	return value
}

func settingKeys() []string {
	keys := make([]string, 0, len(settings))
	for _, s := range settings {
		keys = append(keys, s.Key)
	}
	return keys
}

func completeKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return settingKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func completeKeyValue(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 1 {
		return completeKey(cmd, args, toComplete)
	}
	if s, err := lookupSetting(args[0]); err == nil {
		return s.Choices, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// MARK: Value checks

func checkBool(value string) error {
	if value != "true" && value != "false" {
		return fmt.Errorf("want true or false, got %q", value)
	}
	return nil
}

func checkInt(value string) error {
	if _, err := strconv.Atoi(value); err != nil {
		return fmt.Errorf("want a whole number, got %q", value)
	}
	return nil
}

func checkColor(value string) error {
	switch value {
	case ColorAlways, ColorAuto, ColorNever:
		return nil
	}
	return fmt.Errorf("want always, auto or never, got %q", value)
}
