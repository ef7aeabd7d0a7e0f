package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the JSON API.
	Listen string `yaml:"listen"`

	// DBPath locates the sqlite database. Empty means the default under
	// the user config dir.
	DBPath string `yaml:"db_path"`

	// Timezone is the IANA timezone recurring generation runs in
	// (e.g. "America/Argentina/Buenos_Aires").
	Timezone string `yaml:"timezone"`

	// DueSoonDays is the notification lead window in days.
	DueSoonDays int `yaml:"due_soon_days"`

	// RecurCron schedules recurring-task generation (default 00:05).
	RecurCron string `yaml:"recur_cron"`
}

func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "America/Argentina/Buenos_Aires",
		DueSoonDays: 3,
		RecurCron:   "5 0 * * *",
	}
}

// Normalize fills missing/zero values so partially filled configs from
// older versions still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "America/Argentina/Buenos_Aires"
	}
	if c.DueSoonDays <= 0 {
		c.DueSoonDays = 3
	}
	if c.RecurCron == "" {
		c.RecurCron = "5 0 * * *"
	}
}

// DefaultPath returns the per-user config location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "plazo", "config.yaml"), nil
}

// DefaultDBPath returns the per-user database location.
func DefaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "plazo", "plazo.sqlite"), nil
}

// Load reads the YAML config at path, writing a default file (0600) on
// first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg atomically (temp file + rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".plazo-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
