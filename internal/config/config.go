package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/shopos/cli/internal/logging"
)

// DefaultBayCapacity is used when the config does not set bay_capacity.
const DefaultBayCapacity = 4

// Config holds CLI configuration stored at ~/.shopos/config.
type Config struct {
	APIKey      string         `yaml:"api_key"`
	BaseURL     string         `yaml:"base_url,omitempty"`
	RealtimeURL string         `yaml:"realtime_url,omitempty"`
	Username    string         `yaml:"username"`
	Theme       string         `yaml:"theme"`
	VimKeys     bool           `yaml:"vim_keys"`
	BayCapacity int            `yaml:"bay_capacity,omitempty"`
	Log         logging.Config `yaml:"log,omitempty"`
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shopos", "config")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("config missing api_key")
	}

	cfg.applyEnv()
	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// ResolvedBaseURL returns the backend URL, falling back to def.
func (c *Config) ResolvedBaseURL(def string) string {
	if c != nil && c.BaseURL != "" {
		return c.BaseURL
	}
	if env := os.Getenv("SHOPOS_BASE_URL"); env != "" {
		return env
	}
	return def
}

// ResolvedRealtimeURL returns the live updates websocket URL. Without an
// explicit realtime_url it is derived from baseURL.
func (c *Config) ResolvedRealtimeURL(baseURL string) string {
	if c != nil && c.RealtimeURL != "" {
		return c.RealtimeURL
	}
	if env := os.Getenv("SHOPOS_REALTIME_URL"); env != "" {
		return env
	}
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		baseURL = "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		baseURL = "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return strings.TrimRight(baseURL, "/") + "/api/realtime"
}

// Bays returns the configured bay capacity.
func (c *Config) Bays() int {
	if c == nil || c.BayCapacity <= 0 {
		return DefaultBayCapacity
	}
	return c.BayCapacity
}

func (c *Config) applyEnv() {
	if env := os.Getenv("SHOPOS_BASE_URL"); env != "" {
		c.BaseURL = env
	}
	if env := os.Getenv("SHOPOS_REALTIME_URL"); env != "" {
		c.RealtimeURL = env
	}
}
