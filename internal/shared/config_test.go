package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Similarity.Server == "" {
			t.Error("expected default similarity server")
		}
		if config.Similarity.TimeoutSeconds <= 0 {
			t.Error("expected positive default timeout")
		}
		if config.Export.Count <= 0 {
			t.Error("expected positive default count")
		}
		if config.Export.NumWorkers <= 0 {
			t.Error("expected positive default worker count")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Valid File", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")

			content := `
[similarity]
server = "192.168.1.10:8000"
timeout_seconds = 30

[export]
count = 5
num_workers = 2
rate_limit = 2.5

[database]
path = "cache.db"
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if config.Similarity.Server != "192.168.1.10:8000" {
				t.Errorf("expected server '192.168.1.10:8000', got %s", config.Similarity.Server)
			}
			if config.Export.Count != 5 {
				t.Errorf("expected count 5, got %d", config.Export.Count)
			}
			if config.Export.RateLimit != 2.5 {
				t.Errorf("expected rate limit 2.5, got %f", config.Export.RateLimit)
			}
			if config.Database.Path != "cache.db" {
				t.Errorf("expected database path 'cache.db', got %s", config.Database.Path)
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("Malformed TOML", func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "bad.toml")
			if err := os.WriteFile(path, []byte("[similarity\nserver="), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			_, err := LoadConfig(path)
			if err == nil {
				t.Error("expected parse error")
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("CreateConfigFile failed: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected config file to exist: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file already exists")
		}
	})
}
