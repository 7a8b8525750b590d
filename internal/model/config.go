package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RemoteConfig holds connection settings for the notification service.
type RemoteConfig struct {
	// BaseURL is the root URL of the notification service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Username identifies whose feed is synchronized.
	Username string `mapstructure:"username" yaml:"username"`

	// TimeoutSec bounds each individual remote request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// SyncConfig holds settings for the background sync loop.
type SyncConfig struct {
	// PollIntervalSec is how long each poll cycle waits before
	// requesting an incremental fetch.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	// Types optionally restricts incremental fetches to these
	// notification types. Empty means all types.
	Types []string `mapstructure:"types" yaml:"types"`

	// JournalPath is where pending read/unread/shown marks are
	// journaled so they survive a restart. Empty disables the journal.
	JournalPath string `mapstructure:"journal_path" yaml:"journal_path"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`
	Sync   SyncConfig   `mapstructure:"sync" yaml:"sync"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/notifcenter/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "notifcenter", "config.yaml")
}

// DefaultJournalPath returns the default location of the pending-mark
// journal database.
func DefaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "journal.db")
	}
	return filepath.Join(home, ".config", "notifcenter", "journal.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Remote: RemoteConfig{
			TimeoutSec: 30,
		},
		Sync: SyncConfig{
			PollIntervalSec: 5,
			JournalPath:     DefaultJournalPath(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("remote.timeout_sec", 30)
	v.SetDefault("sync.poll_interval_sec", 5)
	v.SetDefault("sync.journal_path", DefaultJournalPath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("remote", cfg.Remote)
	v.Set("sync", cfg.Sync)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
