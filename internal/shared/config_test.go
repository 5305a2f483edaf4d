package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tunecab.db" {
			t.Errorf("expected database path ./tunecab.db, got %s", config.Database.Path)
		}

		if config.Playback.MonitorIntervalMS != 250 {
			t.Errorf("expected monitor interval 250ms, got %d", config.Playback.MonitorIntervalMS)
		}

		if config.Playback.Volume != 0.7 {
			t.Errorf("expected initial volume 0.7, got %v", config.Playback.Volume)
		}

		if len(config.Library.Extensions) == 0 {
			t.Error("expected default audio extensions")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[library]
music_dirs = ["/music"]
extensions = [".mp3"]

[database]
path = "/tmp/test.db"
max_open_conns = 2
max_idle_conns = 1

[playback]
monitor_interval_ms = 100
volume = 0.5
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/tmp/test.db" {
			t.Errorf("expected database path /tmp/test.db, got %s", config.Database.Path)
		}
		if config.Playback.MonitorIntervalMS != 100 {
			t.Errorf("expected monitor interval 100, got %d", config.Playback.MonitorIntervalMS)
		}
		if len(config.Library.MusicDirs) != 1 || config.Library.MusicDirs[0] != "/music" {
			t.Errorf("unexpected music dirs: %v", config.Library.MusicDirs)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
