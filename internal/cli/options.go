package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/holonoms/dirtree/internal/config"
	"github.com/holonoms/dirtree/internal/filetree"
	"github.com/holonoms/dirtree/internal/ignore"
)

// Color modes accepted by --color.
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

// envPrefix prefixes environment overrides: tree.level -> DIRTREE_TREE_LEVEL.
const envPrefix = "DIRTREE"

// Options holds the command-line options. After resolve, the layered values
// (flags, environment, stored config, defaults) are written back here.
type Options struct {
	// Directories are the roots to print. Empty means ".".
	Directories []string

	All      bool
	DirsOnly bool

	// Level limits the depth; negative means unbounded.
	Level int

	Exclude      []string
	ExcludeDirs  []string
	ExcludeFiles []string

	// Pattern keeps only matching entries; "a|b" lists alternatives.
	Pattern string

	// IgnoreFile is a gitignore-style file applied relative to each root.
	IgnoreFile string

	FullPath   bool
	IgnoreCase bool
	DirsFirst  bool
	ShowSize   bool
	NoReport   bool

	// Color is one of always, auto or never.
	Color string

	// OutputFile receives the tree instead of stdout when set.
	OutputFile string

	LogLevel string

	// ProjectDir is where the project config file is looked up. Empty means
	// the working directory.
	ProjectDir string
}

// flagKeys binds config keys to the flags that override them.
var flagKeys = map[string]string{
	"tree.all":         "all",
	"tree.dirs_only":   "dirs-only",
	"tree.level":       "level",
	"tree.exclude":     "exclude",
	"tree.ignore_case": "ignore-case",
	"tree.dirs_first":  "dirsfirst",
	"tree.noreport":    "noreport",
	"tree.color":       "color",
	"log.level":        "log-level",
}

func (o *Options) projectDir() string {
	if o.ProjectDir == "" {
		return "."
	}
	return o.ProjectDir
}

// loadSettings layers, from lowest to highest precedence: built-in defaults,
// the stored config, DIRTREE_* environment variables and explicit flags. A nil
// store skips the stored layer.
func loadSettings(cmd *cobra.Command, store *config.Config) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, s := range settings {
		v.SetDefault(s.Key, s.Default)
	}
	v.SetDefault("log.level", "warn")

	if store != nil {
		for _, key := range store.Keys() {
			v.SetDefault(key, store.Get(key))
		}
	}

	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("unable to bind flag %s: %w", name, err)
		}
	}

	return v, nil
}

// resolve copies the layered settings back into o and validates them.
func (o *Options) resolve(v *viper.Viper) error {
	o.All = v.GetBool("tree.all")
	o.DirsOnly = v.GetBool("tree.dirs_only")
	o.Level = v.GetInt("tree.level")
	o.Exclude = stringList(v, "tree.exclude")
	o.IgnoreCase = v.GetBool("tree.ignore_case")
	o.DirsFirst = v.GetBool("tree.dirs_first")
	o.NoReport = v.GetBool("tree.noreport")
	o.Color = strings.ToLower(v.GetString("tree.color"))
	o.LogLevel = v.GetString("log.level")

	if err := checkColor(o.Color); err != nil {
		return fmt.Errorf("invalid --color: %w", err)
	}
	return nil
}

// treeConfig builds the traversal settings shared by every root.
func (o *Options) treeConfig(color bool) filetree.Config {
	level := o.Level
	if level < 0 {
		level = filetree.Unbounded
	}

	return filetree.Config{
		ShowHidden:   o.All,
		DirsOnly:     o.DirsOnly,
		MaxDepth:     level,
		Exclude:      o.Exclude,
		ExcludeDirs:  o.ExcludeDirs,
		ExcludeFiles: o.ExcludeFiles,
		Include:      ignore.SplitAlternatives(o.Pattern),
		IgnoreFile:   o.IgnoreFile,
		IgnoreCase:   o.IgnoreCase,
		DirsFirst:    o.DirsFirst,
		Color:        color,
		FullPath:     o.FullPath,
		ShowSize:     o.ShowSize,
	}
}

// stringList reads a list setting. Flags yield slices; the environment and
// stored config hold comma-separated strings.
func stringList(v *viper.Viper, key string) []string {
	var parts []string
	switch value := v.Get(key).(type) {
	case []string:
		parts = value
	case []any:
		for _, item := range value {
			parts = append(parts, fmt.Sprint(item))
		}
	case string:
		parts = strings.Split(value, ",")
	}

	var out []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
