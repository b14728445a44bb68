package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"rmmz-mcp/internal/logging"
	"rmmz-mcp/internal/project"
	"rmmz-mcp/pkg/fileops"
)

const APP_NAME = "rmmz-mcp" // application name used for config directory

// CONFIG_PATH_ENV overrides the config file location.
const CONFIG_PATH_ENV = "RMMZ_MCP_CONFIG"

// CONFIG_VERSION is written to new config files.
const CONFIG_VERSION = "1.0"

// Config holds user configuration for rmmz-mcp.
type Config struct {
	// ProjectPath is the root of the RPG Maker MZ project to serve.
	ProjectPath string `yaml:"project_path"`
	// StructuredErrors marks failed tool results with isError instead of only
	// prefixing the text with "Error: ".
	StructuredErrors bool `yaml:"structured_errors"`
	// HTTPAddr, when set, makes `serve` listen on streamable HTTP instead of stdio.
	HTTPAddr string `yaml:"http_addr,omitempty"`
	Version  string `yaml:"version"`   // Track config version
	InitTime int64  `yaml:"init_time"` // Unix timestamp of first setup
}

// ConfigPath returns the config file path for the current platform.
func ConfigPath() (string, error) {
	if override := os.Getenv(CONFIG_PATH_ENV); override != "" {
		return fileops.ExpandPath(override), nil
	}

	configDir := filepath.Join(xdg.ConfigHome, APP_NAME)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config paths", "path", configPath)
	return configPath, nil
}

// Load loads the config from the standard location.
// If no config exists, it returns an error indicating first run is needed.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		return nil, fmt.Errorf("no configuration found, run `%s config init` first", APP_NAME)
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Version != "" && cfg.Version != CONFIG_VERSION {
		logging.Warn("Config file has an unknown version, reading it anyway",
			"path", path, "version", cfg.Version, "expected", CONFIG_VERSION)
	}

	return &cfg, nil
}

// LoadOrDefault loads the config at path, or the standard location when path is
// empty. A missing file yields DefaultConfig; a file that exists but cannot be read
// or parsed is an error.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		if IsFirstRun() {
			logging.Debug("No config file at the standard location, using defaults")
			return defaultPtr(), nil
		}
		return Load()
	}

	if _, err := os.Stat(path); err != nil {
		logging.Debug("No config file, using defaults", "path", path)
		return defaultPtr(), nil
	}
	return LoadFrom(path)
}

func defaultPtr() *Config {
	cfg := DefaultConfig()
	return &cfg
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// IsFirstRun checks if no config file has been written yet
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Version:  CONFIG_VERSION,
		InitTime: 0, // Will be set during first save
	}
}

// ResolveProjectPath picks the project root: an explicit flag value wins, then the
// RPGMAKER_PROJECT_PATH environment variable, then the config file.
func (c *Config) ResolveProjectPath(flagValue string) string {
	if flagValue != "" {
		return fileops.ExpandPath(flagValue)
	}
	if env := os.Getenv(project.EnvVar); env != "" {
		return fileops.ExpandPath(env)
	}
	return fileops.ExpandPath(c.ProjectPath)
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Set init time if this is the first save
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CreateNewConfig validates projectPath and writes a fresh config pointing at it
// to path (the standard location when path is empty).
func CreateNewConfig(path, projectPath string, structuredErrors bool) (*Config, error) {
	resolved, err := project.Resolve(projectPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.ProjectPath = resolved
	cfg.StructuredErrors = structuredErrors

	if path == "" {
		path, _ = FindConfigFile()
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	logging.Info("Configuration created successfully", "path", path, "project_path", cfg.ProjectPath)
	return &cfg, nil
}
