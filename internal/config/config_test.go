package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "127.0.0.1"
  port: 8080
storage:
  backend: "sqlite"
  dir: "/var/lib/repbook"
catalog:
  base_url: "https://wger.de/api/v2"
  page_size: 20
persist:
  debounce_ms: 250
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all
// fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("storage.backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Storage.Dir != "/var/lib/repbook" {
		t.Errorf("storage.dir = %q", cfg.Storage.Dir)
	}
	if cfg.Catalog.PageSize != 20 {
		t.Errorf("catalog.page_size = %d, want 20", cfg.Catalog.PageSize)
	}
	if cfg.Persist.DebounceMS != 250 {
		t.Errorf("persist.debounce_ms = %d, want 250", cfg.Persist.DebounceMS)
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q", cfg.Auth.APIKey)
	}
}

// TestDefaults verifies that omitted fields pick up defaults.
func TestDefaults(t *testing.T) {
	cfg, err := Load(writeTemp(t, `
server:
  port: 9000
storage:
  dir: "/tmp/repbook"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("default backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Catalog.BaseURL != "https://wger.de/api/v2" {
		t.Errorf("default base_url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.PageSize != 20 {
		t.Errorf("default page_size = %d, want 20", cfg.Catalog.PageSize)
	}
	if cfg.Persist.DebounceMS != 250 {
		t.Errorf("default debounce_ms = %d, want 250", cfg.Persist.DebounceMS)
	}
}

// TestEnvOverride verifies that REPBOOK_ env vars take precedence over
// YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("REPBOOK_SERVER_PORT", "9999")
	t.Setenv("REPBOOK_STORAGE_BACKEND", "file")
	t.Setenv("REPBOOK_CATALOG_BASE_URL", "http://localhost:8000/api/v2")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("storage.backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Catalog.BaseURL != "http://localhost:8000/api/v2" {
		t.Errorf("catalog.base_url = %q", cfg.Catalog.BaseURL)
	}
}

// TestValidation verifies the required-field and enum checks.
func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing port", "storage:\n  dir: /tmp/x\n"},
		{"missing storage dir", "server:\n  port: 8080\n"},
		{"bad backend", "server:\n  port: 8080\nstorage:\n  backend: postgres\n  dir: /tmp/x\n"},
		{"negative debounce", "server:\n  port: 8080\nstorage:\n  dir: /tmp/x\npersist:\n  debounce_ms: -5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeTemp(t, tc.yaml)); err == nil {
				t.Errorf("Load succeeded, want validation error")
			}
		})
	}
}

// TestLoadMissingFile verifies a missing config file is an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load succeeded on missing file")
	}
}
