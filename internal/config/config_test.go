package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLUX_DATA_DIR", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "flux.db") {
		t.Errorf("expected db path under data dir, got %s", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.Prediction.FertileWindow != "fixed" {
		t.Errorf("expected fixed fertile window, got %s", cfg.Prediction.FertileWindow)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "log_level: debug\nprediction:\n  fertile_window: scaled\nbackup:\n  compress: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FLUX_DATA_DIR", dir)
	t.Setenv("FLUX_HTTP_ADDR", "localhost:9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.Prediction.FertileWindow != "scaled" {
		t.Errorf("expected scaled fertile window, got %s", cfg.Prediction.FertileWindow)
	}
	if !cfg.Backup.Compress {
		t.Error("expected backup compression enabled")
	}
	if cfg.HTTP.Addr != "localhost:9999" {
		t.Errorf("expected env to override http addr, got %s", cfg.HTTP.Addr)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "log level", env: map[string]string{"FLUX_LOG_LEVEL": "loud"}},
		{name: "fertile window", env: map[string]string{"FLUX_PREDICTION_FERTILE_WINDOW": "lunar"}},
		{name: "http addr", env: map[string]string{"FLUX_HTTP_ADDR": "nowhere"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FLUX_DATA_DIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("FLUX_DATA_DIR", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestYAML(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/flux", DBPath: "/tmp/flux/flux.db", LogLevel: "info", HTTP: HTTPConfig{Addr: "localhost:7878"}}
	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	if !strings.Contains(string(out), "addr: localhost:7878") {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}
