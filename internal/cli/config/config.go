package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "gymfeetrack"
	ConfigFileName = "config.yaml"
	tokenFileName  = "token"

	// DirEnv overrides the config directory (~/.config/gymfeetrack)
	DirEnv = "GYMFEETRACK_CONFIG_DIR"

	DefaultAPIURL = "http://127.0.0.1:8000/api/"
)

// Config is the user's gymctl configuration stored in ~/.config/gymfeetrack/config.yaml
type Config struct {
	APIURL     string        `yaml:"api_url" validate:"required,url"`
	TokenStore string        `yaml:"token_store" validate:"omitempty,oneof=keyring file memory"`
	LogLevel   string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn error off"`
	LogFormat  string        `yaml:"log_format" validate:"omitempty,oneof=console json"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		APIURL:     DefaultAPIURL,
		TokenStore: "keyring",
		LogLevel:   "warn",
		LogFormat:  "console",
		Timeout:    30 * time.Second,
	}
}

// envOverrides maps environment variables onto config keys
var envOverrides = map[string]string{
	"GYMFEETRACK_API_URL":     "api_url",
	"GYMFEETRACK_TOKEN_STORE": "token_store",
	"GYMFEETRACK_LOG_LEVEL":   "log_level",
	"GYMFEETRACK_LOG_FORMAT":  "log_format",
	"GYMFEETRACK_TIMEOUT":     "timeout",
}

var validate = validator.New()

// Dir returns the directory holding the config file and the file token store
func Dir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName), nil
}

// Path returns the path to the user config file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// TokenPath returns where the file token store keeps the credential
func TokenPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFileName), nil
}

// Load reads the user config, then applies .env and GYMFEETRACK_* overrides
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	for env, key := range envOverrides {
		if value := os.Getenv(env); value != "" {
			if err := cfg.Set(key, value); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", env, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path on top of the defaults. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks field values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q check (value %v)", yamlKey(fe.StructField()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Keys lists the settable config keys
func Keys() []string {
	keys := make([]string, 0, len(envOverrides))
	for _, key := range envOverrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a single key from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = value
	case "token_store":
		c.TokenStore = strings.ToLower(value)
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "log_format":
		c.LogFormat = strings.ToLower(value)
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("timeout must be a duration such as 30s: %w", err)
		}
		c.Timeout = d
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Get returns a single key in string form
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "token_store":
		return c.TokenStore, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "timeout":
		return c.Timeout.String(), nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
}

func yamlKey(field string) string {
	switch field {
	case "APIURL":
		return "api_url"
	case "TokenStore":
		return "token_store"
	case "LogLevel":
		return "log_level"
	case "LogFormat":
		return "log_format"
	case "Timeout":
		return "timeout"
	default:
		return field
	}
}
