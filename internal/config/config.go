package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories
	DirPermissions = 0755

	// DefaultBaseURL is the local development API address
	DefaultBaseURL = "http://localhost:5000/api"
	// DefaultProductionURL is the hosted backend
	DefaultProductionURL = "https://telegram-bot-backend-pcpz.onrender.com/api"
	// DefaultTimeout is the request timeout
	DefaultTimeout = 30 * time.Second
)

var (
	// ConfigDir is the global configuration directory (~/.tgboard)
	ConfigDir string

	// ConfigFile is the yaml configuration file
	ConfigFile string

	// SessionFile is the persisted session state file
	SessionFile string

	// DatabasePath is the SQLite database for the local send log
	DatabasePath string
)

// Config holds the client configuration loaded from config.yaml,
// overridable through TGBOARD_* environment variables.
type Config struct {
	BaseURL        string `yaml:"base_url"`
	ProductionURL  string `yaml:"production_url"`
	Production     bool   `yaml:"production"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Initialize sets up the configuration directory and global paths.
// It creates ~/.tgboard/ if it doesn't exist.
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".tgboard")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	DatabasePath = filepath.Join(ConfigDir, "tgboard.db")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// Load reads config.yaml and applies environment overrides.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	// Best-effort .env support for development setups
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:        DefaultBaseURL,
		ProductionURL:  DefaultProductionURL,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
	}

	if ConfigFile != "" {
		data, err := os.ReadFile(ConfigFile)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
		}
	}

	if v := os.Getenv("TGBOARD_API_URL"); v != "" {
		cfg.BaseURL = v
		cfg.Production = false
	}
	if v := os.Getenv("TGBOARD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TGBOARD_TIMEOUT %q: %w", v, err)
		}
		cfg.TimeoutSeconds = int(d / time.Second)
	}

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}

	return cfg, nil
}

// EffectiveBaseURL returns the API base URL for the active environment.
func (c *Config) EffectiveBaseURL() string {
	if c.Production && c.ProductionURL != "" {
		return c.ProductionURL
	}
	return c.BaseURL
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Save writes the configuration back to config.yaml.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigFile, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
