// Package config persists default settings in JSON files. Settings are grouped
// into sections, similar to INI files: a key such as "tree.level" lives under
// the "tree" object of the file. Each key is stored either globally (shared by
// every directory) or per project, depending on the key.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// ProjectFile is the name of the per-project settings file.
const ProjectFile = ".dirtree"

// Config manages persisted settings, routing each key to the global or the
// project file.
type Config struct {
	globalPath  string
	globalErr   error // why globalPath is unknown
	projectPath string
	global      map[string]map[string]string
	project     map[string]map[string]string
}

// Keys stored in the global file. Everything else is per project.
var globalKeys = map[string]bool{
	"tree.color": true,
}

// New loads the global config (~/.config/dirtree/config.json) and, when
// projectDir is not empty, the project config at projectDir/.dirtree. Missing
// files are treated as empty, and so is the global config when there is no
// home directory to find it in; setting a global key then fails.
func New(projectDir string) (*Config, error) {
	c := &Config{
		global:  make(map[string]map[string]string),
		project: make(map[string]map[string]string),
	}

	if globalDir, err := globalConfigDir(); err != nil {
		c.globalErr = err
	} else {
		c.globalPath = filepath.Join(globalDir, "config.json")
		if err := load(c.globalPath, c.global); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if projectDir != "" {
		c.projectPath = filepath.Join(projectDir, ProjectFile)
		if err := load(c.projectPath, c.project); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load project config: %w", err)
		}
	}

	return c, nil
}

// Has checks if a key has a stored value.
func (c *Config) Has(key string) bool {
	section, subKey := splitKey(key)
	_, ok := c.store(key)[section][subKey]
	return ok
}

// Get returns the stored value, or "" when unset.
func (c *Config) Get(key string) string {
	section, subKey := splitKey(key)
	return c.store(key)[section][subKey]
}

// Set stores a value and writes the owning file.
func (c *Config) Set(key, value string) error {
	section, subKey := splitKey(key)
	data := c.store(key)
	if _, ok := data[section]; !ok {
		data[section] = make(map[string]string)
	}
	data[section][subKey] = value
	return c.save(key)
}

// Delete removes a value and writes the owning file.
func (c *Config) Delete(key string) error {
	section, subKey := splitKey(key)
	data := c.store(key)
	if sectionData, ok := data[section]; ok {
		delete(sectionData, subKey)
		if len(sectionData) == 0 {
			delete(data, section)
		}
	}
	return c.save(key)
}

// Keys returns every stored key, sorted.
func (c *Config) Keys() []string {
	var keys []string
	for _, data := range []map[string]map[string]string{c.global, c.project} {
		for section, sectionData := range data {
			for subKey := range sectionData {
				keys = append(keys, section+"."+subKey)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// IsGlobalKey reports whether key is stored in the global file.
func (c *Config) IsGlobalKey(key string) bool {
	return globalKeys[key]
}

// MARK: Internal helpers

func splitKey(key string) (section, subKey string) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", key
	}
	return parts[0], parts[1]
}

func (c *Config) store(key string) map[string]map[string]string {
	if globalKeys[key] {
		return c.global
	}
	return c.project
}

func (c *Config) save(key string) error {
	if globalKeys[key] {
		if c.globalPath == "" {
			return fmt.Errorf("failed to determine global config path: %w", c.globalErr)
		}
		return write(c.globalPath, c.global)
	}
	if c.projectPath == "" {
		return fmt.Errorf("no project directory for key %s", key)
	}
	return write(c.projectPath, c.project)
}

func load(path string, data map[string]map[string]string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, &data)
}

func write(path string, data map[string]map[string]string) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func globalConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
	default:
		if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
			configDir = xdgHome
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, "dirtree"), nil
}
