package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %s", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "memory" {
		t.Fatalf("backend = %s", cfg.Storage.Backend)
	}
	if cfg.Deadlines.WarningThreshold != 24*time.Hour {
		t.Fatalf("threshold = %v", cfg.Deadlines.WarningThreshold)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %s", cfg.Server.Port)
	}
}

func TestYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskwell.yaml")
	data := []byte("server:\n  port: \"9090\"\nstorage:\n  backend: file\n  data_dir: /tmp/tw\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %s", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.DataDir != "/tmp/tw" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("TASKWELL_PORT", "7070")
	t.Setenv("TASKWELL_DEADLINE_THRESHOLD", "48h")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("port = %s", cfg.Server.Port)
	}
	if cfg.Deadlines.WarningThreshold != 48*time.Hour {
		t.Fatalf("threshold = %v", cfg.Deadlines.WarningThreshold)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("TASKWELL_STORAGE_BACKEND", "cassandra")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected validation error")
	}
}
