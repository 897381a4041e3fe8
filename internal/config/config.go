package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Persist   PersistConfig   `yaml:"persist"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	// Backend selects the snapshot store: "sqlite" (default) or "file".
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

type CatalogConfig struct {
	BaseURL  string `yaml:"base_url"`
	PageSize int    `yaml:"page_size"`
}

type PersistConfig struct {
	// DebounceMS is the save coalescing window in milliseconds.
	DebounceMS int `yaml:"debounce_ms"`
}

type AuthConfig struct {
	// APIKey guards the snapshot import endpoint.
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix REPBOOK_ and underscore-separated paths:
//
//	REPBOOK_SERVER_HOST, REPBOOK_SERVER_PORT,
//	REPBOOK_STORAGE_BACKEND, REPBOOK_STORAGE_DIR,
//	REPBOOK_CATALOG_BASE_URL, REPBOOK_CATALOG_PAGE_SIZE,
//	REPBOOK_PERSIST_DEBOUNCE_MS, REPBOOK_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPBOOK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPBOOK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPBOOK_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("REPBOOK_STORAGE_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("REPBOOK_CATALOG_BASE_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}
	if v := os.Getenv("REPBOOK_CATALOG_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.PageSize = n
		}
	}
	if v := os.Getenv("REPBOOK_PERSIST_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Persist.DebounceMS = n
		}
	}
	if v := os.Getenv("REPBOOK_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = "https://wger.de/api/v2"
	}
	if cfg.Catalog.PageSize == 0 {
		cfg.Catalog.PageSize = 20
	}
	if cfg.Persist.DebounceMS == 0 {
		cfg.Persist.DebounceMS = 250
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Storage.Backend != "sqlite" && c.Storage.Backend != "file" {
		return fmt.Errorf("storage.backend must be %q or %q, got %q", "sqlite", "file", c.Storage.Backend)
	}
	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}
	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("catalog.page_size must be positive")
	}
	if c.Persist.DebounceMS < 0 {
		return fmt.Errorf("persist.debounce_ms must not be negative")
	}
	return nil
}
