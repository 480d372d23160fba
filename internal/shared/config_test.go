package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./dottify.db" {
			t.Errorf("expected database path ./dottify.db, got %s", config.Database.Path)
		}

		if config.Catalog.DefaultCover != "default_cover.jpg" {
			t.Errorf("expected default cover default_cover.jpg, got %s", config.Catalog.DefaultCover)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20

[catalog]
default_cover = "placeholder.png"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Database.MaxOpenConns)
		}

		if config.Database.MaxIdleConns != 2 {
			t.Errorf("expected max_idle_conns to keep default 2, got %d", config.Database.MaxIdleConns)
		}

		if config.Catalog.DefaultCover != "placeholder.png" {
			t.Errorf("expected default cover placeholder.png, got %s", config.Catalog.DefaultCover)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level to keep default info, got %s", config.Log.Level)
		}
	})

	t.Run("LoadConfig rejects empty cover", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[catalog]\ndefault_cover = \"\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database]\npath = \"/from/file.db\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Setenv("DOTTIFY_DATABASE_PATH", "/from/env.db")
		t.Setenv("DOTTIFY_CATALOG_DEFAULT_COVER", "env_cover.jpg")
		t.Setenv("DOTTIFY_LOG_LEVEL", "debug")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/from/env.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if config.Catalog.DefaultCover != "env_cover.jpg" {
			t.Errorf("expected env cover, got %s", config.Catalog.DefaultCover)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
		if config.Database.MaxIdleConns != 2 {
			t.Errorf("expected unset variables to keep defaults, got %d", config.Database.MaxIdleConns)
		}
	})

	t.Run("ApplyEnv rejects malformed numbers", func(t *testing.T) {
		t.Setenv("DOTTIFY_DATABASE_MAX_OPEN_CONNS", "many")

		err := DefaultConfig().ApplyEnv()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
