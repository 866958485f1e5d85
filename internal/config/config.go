// Package config reads and writes the YAML config file.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/focusday/internal/constants"
	"github.com/julianstephens/focusday/internal/utils"
)

type Config struct {
	// Owner scopes habits and tasks in a shared database.
	Owner         string              `yaml:"owner"`
	Timezone      string              `yaml:"timezone"`
	Storage       StorageConfig       `yaml:"storage"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path,omitempty"`
	// DSN must not carry a password; see the keyring package.
	DSN string `yaml:"dsn,omitempty"`
}

type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Tray delivers through the tray app webhook instead of the log.
	Tray bool `yaml:"tray"`
}

func Default() Config {
	return Config{
		Owner:    defaultOwner(),
		Timezone: constants.DefaultTimezone,
		Storage: StorageConfig{
			Driver: constants.DriverSQLite,
			Path:   filepath.Join(filepath.Dir(constants.DefaultConfigPath), constants.DefaultDBName),
		},
		Notifications: NotificationsConfig{
			Enabled: constants.DefaultNotificationsEnabled,
			Tray:    true,
		},
	}
}

func defaultOwner() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Load reads path. A missing file yields the defaults; fields absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	expanded, err := ExpandPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(expanded)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(expanded, data, 0o600)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Owner) == "" {
		return fmt.Errorf("owner must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	switch c.Storage.Driver {
	case constants.DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case constants.DriverPostgres, constants.DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q (want sqlite, postgres or memory)", c.Storage.Driver)
	}
	return nil
}
