package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	globalHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", globalHome)
	projectDir := t.TempDir()

	t.Run("new config file", func(t *testing.T) {
		cfg, err := New(projectDir)
		if err != nil {
			t.Fatalf("Failed to create config: %v", err)
		}

		if err := cfg.Set("tree.level", "3"); err != nil {
			t.Fatalf("Failed to set value: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(projectDir, ProjectFile))
		if err != nil {
			t.Fatalf("Failed to read config file: %v", err)
		}

		var stored map[string]map[string]string
		if err := json.Unmarshal(data, &stored); err != nil {
			t.Fatalf("Failed to parse config file: %v", err)
		}

		if stored["tree"]["level"] != "3" {
			t.Errorf("Expected value '3', got '%s'", stored["tree"]["level"])
		}
	})

	t.Run("load existing config", func(t *testing.T) {
		cfg, err := New(projectDir)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}

		if !cfg.Has("tree.level") {
			t.Fatal("Expected tree.level to be set")
		}
		if got := cfg.Get("tree.level"); got != "3" {
			t.Errorf("Expected value '3', got '%s'", got)
		}
	})

	t.Run("global keys go to the global file", func(t *testing.T) {
		cfg, err := New(projectDir)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}

		if !cfg.IsGlobalKey("tree.color") {
			t.Fatal("Expected tree.color to be global")
		}
		if err := cfg.Set("tree.color", "never"); err != nil {
			t.Fatalf("Failed to set value: %v", err)
		}

		if _, err := os.Stat(filepath.Join(globalHome, "dirtree", "config.json")); err != nil {
			t.Errorf("Expected global config file: %v", err)
		}

		// Visible from another project.
		other, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if got := other.Get("tree.color"); got != "never" {
			t.Errorf("Expected 'never', got '%s'", got)
		}
		if other.Has("tree.level") {
			t.Error("Project key leaked into another project")
		}
	})

	t.Run("keys", func(t *testing.T) {
		cfg, err := New(projectDir)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}

		keys := cfg.Keys()
		if len(keys) != 2 || keys[0] != "tree.color" || keys[1] != "tree.level" {
			t.Errorf("Unexpected keys: %v", keys)
		}
	})

	t.Run("delete", func(t *testing.T) {
		cfg, err := New(projectDir)
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}

		if err := cfg.Delete("tree.level"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if cfg.Has("tree.level") {
			t.Error("Expected tree.level to be removed")
		}

		reloaded, err := New(projectDir)
		if err != nil {
			t.Fatalf("Failed to reload config: %v", err)
		}
		if reloaded.Has("tree.level") {
			t.Error("Expected deletion to be persisted")
		}
	})

	t.Run("project key without project", func(t *testing.T) {
		cfg, err := New("")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if err := cfg.Set("tree.level", "1"); err == nil {
			t.Error("Expected error when no project directory is configured")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		badDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(badDir, ProjectFile), []byte("invalid json"), 0o644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		if _, err := New(badDir); err == nil {
			t.Error("Expected error for invalid JSON, got nil")
		}
	})
}

func TestConfigWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	projectDir := t.TempDir()

	cfg, err := New(projectDir)
	if err != nil {
		t.Fatalf("Expected config without a home directory, got: %v", err)
	}

	if cfg.Has("tree.color") {
		t.Error("Expected an empty global store")
	}
	if err := cfg.Set("tree.level", "2"); err != nil {
		t.Errorf("Expected project keys to still be stored: %v", err)
	}
	if err := cfg.Set("tree.color", "never"); err == nil {
		t.Error("Expected an error when storing a global key without a home directory")
	}
}
