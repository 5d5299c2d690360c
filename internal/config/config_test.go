package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
baseURL: http://localhost:8080
logLevel: debug
requestTimeout: 5s
sessionBackend: memory
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("baseURL = %q", cfg.BaseURL)
	}
	if cfg.LogLevel != "debug" || cfg.SessionBackend != BackendMemory {
		t.Fatalf("cfg = %+v", cfg)
	}
	d, err := cfg.Timeout()
	if err != nil || d.Seconds() != 5 {
		t.Fatalf("timeout = %v err = %v", d, err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "baseURL: http://file-wins:1\n")
	t.Setenv("SHOP_BASE_URL", "http://env-wins:2")
	t.Setenv("SHOP_SESSION_BACKEND", "memory")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://env-wins:2" {
		t.Fatalf("baseURL = %q", cfg.BaseURL)
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing baseURL", "logLevel: info\n"},
		{"unknown backend", "baseURL: http://x\nsessionBackend: vault\n"},
		{"redis without addr", "baseURL: http://x\nsessionBackend: redis\n"},
		{"bad timeout", "baseURL: http://x\nrequestTimeout: soon\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultsWithoutFile(t *testing.T) {
	t.Setenv("SHOP_BASE_URL", "http://localhost:8080")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionBackend != BackendFile || cfg.SessionFile == "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
