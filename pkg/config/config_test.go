package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plexdedupe/plexdedupe/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing url", func(c *Config) { c.Plex.URL = "" }, "plex.url"},
		{"bad strategy", func(c *Config) { c.Clean.Strategy = "newest" }, "clean.strategy"},
		{"bad mode", func(c *Config) { c.Clean.Mode = "symlink" }, "clean.mode"},
		{"tiny buffer", func(c *Config) { c.Clean.BufferSize = 512 }, "clean.buffer_size"},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %s, want %s", verr.Field, tt.field)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Plex.URL = "https://plex.example.com:32400"
	cfg.Plex.Token = "secret-token"
	cfg.Plex.Timeout = 45 * time.Second
	cfg.Clean.Strategy = models.KeepSmallest
	cfg.Clean.Mode = models.ModeHardlink

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// The token lives in this file; it must not be world-readable.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Plex.URL != cfg.Plex.URL || loaded.Plex.Token != cfg.Plex.Token {
		t.Errorf("plex settings lost: %+v", loaded.Plex)
	}
	if loaded.Plex.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s", loaded.Plex.Timeout)
	}
	if loaded.Clean.Strategy != models.KeepSmallest || loaded.Clean.Mode != models.ModeHardlink {
		t.Errorf("clean settings lost: %+v", loaded.Clean)
	}
}

func TestLoadFromFilePartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("plex:\n  url: http://nas.local:32400\n  token: abc\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Plex.URL != "http://nas.local:32400" {
		t.Errorf("url = %s", cfg.Plex.URL)
	}
	// Unspecified fields keep their defaults.
	if cfg.Clean.Strategy != models.KeepLargest {
		t.Errorf("strategy = %s, want default largest", cfg.Clean.Strategy)
	}
	if cfg.Clean.BufferSize != 128*1024 {
		t.Errorf("buffer size = %d, want default", cfg.Clean.BufferSize)
	}
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("clean:\n  strategy: newest\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid strategy")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
