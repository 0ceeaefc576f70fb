// Package config loads taskdeck settings. Values resolve in layers:
// built-in defaults, then ~/.config/taskdeck/config.toml, then a .env
// file in the working directory, then TASKDECK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DataDir   string         `toml:"data_dir"`
	Assignee  string         `toml:"assignee"`
	Log       LogConfig      `toml:"log"`
	Reminders ReminderConfig `toml:"reminders"`
	Backups   BackupConfig   `toml:"backups"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// ReminderConfig controls the reminder scheduler.
type ReminderConfig struct {
	Interval    Duration `toml:"interval"`
	DueSoonDays int      `toml:"due_soon_days"`
}

// BackupConfig controls backup retention.
type BackupConfig struct {
	RetentionDays int `toml:"retention_days"`
}

// Duration wraps time.Duration so intervals can be written as "90s" or
// "5m" in the config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Retention returns the backup retention as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Backups.RetentionDays) * 24 * time.Hour
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		DataDir: filepath.Join(homeDir, ".taskdeck"),
		Log:     LogConfig{Level: "info"},
		Reminders: ReminderConfig{
			Interval:    Duration{time.Minute},
			DueSoonDays: 1,
		},
		Backups: BackupConfig{RetentionDays: 30},
	}
}

// Load loads configuration from the standard location.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home dir: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "taskdeck", "config.toml")
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path, then applies .env
// and environment overrides on top.
func LoadFrom(configPath string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	_ = godotenv.Load(".env")
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.DataDir != "" {
		cfg.DataDir = expandPath(cfg.DataDir)
	}
	return cfg, nil
}

// applyEnv overrides fields from TASKDECK_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("TASKDECK_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TASKDECK_ASSIGNEE"); v != "" {
		c.Assignee = v
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TASKDECK_REMIND_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TASKDECK_REMIND_INTERVAL: %w", err)
		}
		c.Reminders.Interval = Duration{parsed}
	}
	if v := os.Getenv("TASKDECK_DUE_SOON_DAYS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TASKDECK_DUE_SOON_DAYS: %w", err)
		}
		c.Reminders.DueSoonDays = parsed
	}
	if v := os.Getenv("TASKDECK_BACKUP_RETENTION_DAYS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TASKDECK_BACKUP_RETENTION_DAYS: %w", err)
		}
		c.Backups.RetentionDays = parsed
	}
	return nil
}

// expandPath expands ~ to the home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
