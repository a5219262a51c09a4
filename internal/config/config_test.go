package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Host.URL != "ws://127.0.0.1:7456/scene" {
			t.Fatalf("unexpected host url %q", cfg.Host.URL)
		}
		if cfg.Host.DialTimeout != 3*time.Second {
			t.Fatalf("expected 3s dial timeout, got %s", cfg.Host.DialTimeout)
		}
		if cfg.Verify.Delay != 50*time.Millisecond {
			t.Fatalf("expected 50ms verify delay, got %s", cfg.Verify.Delay)
		}
		if cfg.Journal.DSN != "sqlite://./.scenebridge/journal.db" {
			t.Fatalf("unexpected journal dsn %q", cfg.Journal.DSN)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
			t.Fatalf("unexpected log config %+v", cfg.Log)
		}
		if cfg.Hints != "./hints.yaml" {
			t.Fatalf("unexpected hints path %q", cfg.Hints)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nhost:\n  url: ws://localhost:7456\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Host.DialTimeout != DefaultDialTimeout {
			t.Fatalf("expected default dial timeout, got %s", cfg.Host.DialTimeout)
		}
		if cfg.Verify.Delay != DefaultVerifyDelay {
			t.Fatalf("expected default verify delay, got %s", cfg.Verify.Delay)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
			t.Fatalf("unexpected log defaults %+v", cfg.Log)
		}
		if cfg.Journal.DSN != "" {
			t.Fatalf("expected empty journal dsn, got %q", cfg.Journal.DSN)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "version: 2\nhost:\n  url: ws://localhost:7456\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing host url", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nhost:\n  url: \n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("http host url rejected", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nhost:\n  url: http://localhost:7456\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("negative verify delay", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nhost:\n  url: ws://localhost:7456\nverify:\n  delay: -1s\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown log level", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nhost:\n  url: ws://localhost:7456\nlog:\n  level: loud\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown log format", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nhost:\n  url: ws://localhost:7456\nlog:\n  format: xml\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported journal scheme", func(t *testing.T) {
		path := writeTempConfig(t, "version: 1\nhost:\n  url: ws://localhost:7456\njournal:\n  dsn: mysql://localhost/db\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "version: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
