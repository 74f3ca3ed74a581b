// Package config loads tutorctl's configuration. Sources, highest
// priority first: CLI flags (applied by cmd), environment variables,
// the --config file, ~/.config/tutorctl/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Gateway modes.
const (
	GatewayBackend   = "backend"
	GatewayOpenAI    = "openai"
	GatewayAnthropic = "anthropic"
)

// Storage backends.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// APIConfig points at the remote learning service.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ProviderConfig configures one direct completion provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Config is the complete configuration.
type Config struct {
	// API is the remote service used for auth, profile and (in backend
	// gateway mode) chat completions.
	API APIConfig `yaml:"api"`

	// Gateway selects where completions go: "backend" (default),
	// "openai" or "anthropic".
	Gateway string `yaml:"gateway"`

	// Providers configures the direct gateway modes.
	Providers map[string]*ProviderConfig `yaml:"providers"`

	// Storage selects the session store backend: "json" (default) or
	// "sqlite".
	Storage string `yaml:"storage"`

	// DataDir holds the session store (default ~/.local/share/tutorctl).
	DataDir string `yaml:"data_dir"`
}

// DefaultConfig returns the defaults applied before any file or env.
func DefaultConfig() *Config {
	return &Config{
		Gateway:   GatewayBackend,
		Storage:   StorageJSON,
		Providers: make(map[string]*ProviderConfig),
	}
}

// DefaultDataDir returns ~/.local/share/tutorctl.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "tutorctl"), nil
}

// Load reads the config file (missing file is fine) and applies
// environment overrides.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".config", "tutorctl", "config.yaml")
		}
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}
	if cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dir
	}

	return cfg, nil
}

// GetProviderConfig returns the named provider's config, empty when unset.
func (c *Config) GetProviderConfig(name string) *ProviderConfig {
	if pc, ok := c.Providers[name]; ok {
		return pc
	}
	return &ProviderConfig{}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TUTORCTL_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TUTORCTL_GATEWAY"); v != "" {
		cfg.Gateway = v
	}
	if v := os.Getenv("TUTORCTL_STORAGE"); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv("TUTORCTL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	// Generic overrides apply to whichever direct gateway is selected.
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		providerEnv(cfg, cfg.Gateway).APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		providerEnv(cfg, cfg.Gateway).BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		providerEnv(cfg, cfg.Gateway).Model = v
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		providerEnv(cfg, GatewayAnthropic).APIKey = v
	}
}

func providerEnv(cfg *Config, name string) *ProviderConfig {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}
	if cfg.Providers[name] == nil {
		cfg.Providers[name] = &ProviderConfig{}
	}
	return cfg.Providers[name]
}
