package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultServerURL is the default PlanHub API base URL.
// Override at build time with: go build -ldflags "-X github.com/planhub/planhub-cli/internal/config.DefaultServerURL=http://localhost:8080"
var DefaultServerURL = "https://api.planhub.app"

// Config represents the application configuration
type Config struct {
	// ServerURL is the API base URL. It is always an explicit value in the
	// config file; the client never derives it from its environment.
	ServerURL string `yaml:"server_url" mapstructure:"server_url"`

	// Stored session
	AccessToken  string `yaml:"access_token,omitempty" mapstructure:"access_token"`
	RefreshToken string `yaml:"refresh_token,omitempty" mapstructure:"refresh_token"`
	User         *User  `yaml:"user,omitempty" mapstructure:"user"`

	// ResetToken is the short-lived password-recovery token handed out by
	// the verify-OTP step. It lives here, and only here, between
	// `planhub recover verify` and `planhub recover reset`.
	ResetToken string `yaml:"reset_token,omitempty" mapstructure:"reset_token"`

	// DefaultProject preselects a project for `tasks` and `board`.
	DefaultProject int64 `yaml:"default_project,omitempty" mapstructure:"default_project"`
}

// User is the decoded identity of the logged-in account.
type User struct {
	ID          int64        `yaml:"id" mapstructure:"id"`
	Name        string       `yaml:"name" mapstructure:"name"`
	Email       string       `yaml:"email" mapstructure:"email"`
	Role        string       `yaml:"role" mapstructure:"role"`
	Permissions []Permission `yaml:"permissions,omitempty" mapstructure:"permissions"`
}

// Permission is a per-module capability flag set.
type Permission struct {
	Module    string `yaml:"module" mapstructure:"module"`
	CanView   bool   `yaml:"can_view" mapstructure:"can_view"`
	CanCreate bool   `yaml:"can_create" mapstructure:"can_create"`
	CanUpdate bool   `yaml:"can_update" mapstructure:"can_update"`
	CanDelete bool   `yaml:"can_delete" mapstructure:"can_delete"`
}

var (
	configPath string
	configDir  string
)

func init() {
	// When running under sudo, os.UserHomeDir() returns /root.
	// Check SUDO_USER to resolve the real user's home directory.
	var home string
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		if u, err := user.Lookup(sudoUser); err == nil {
			home = u.HomeDir
		}
	}
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			panic(fmt.Sprintf("failed to get home directory: %v", err))
		}
	}

	configDir = filepath.Join(home, ".planhub")
	configPath = filepath.Join(configDir, "config.yaml")
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	return configPath
}

// GetConfigDir returns the config directory
func GetConfigDir() string {
	return configDir
}

// SetConfigPath overrides the config location. Used by tests and the
// --config flag.
func SetConfigPath(path string) {
	configPath = path
	configDir = filepath.Dir(path)
}

// Load loads the configuration from file
func Load() (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		defaultConfig := &Config{
			ServerURL: DefaultServerURL,
		}
		if err := Save(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return defaultConfig, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	return &cfg, nil
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Tokens live in this file, so keep it private to the user.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Delete removes the config file so the next Load() creates a fresh one
// with the build-time DefaultServerURL.
func Delete() {
	os.Remove(configPath)
}
