// Package daemon manages the Pulse daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Storage   StorageConfig   `toml:"storage"`
	Rewards   RewardsConfig   `toml:"rewards"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls the SQLite data directory.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// RewardsConfig sets point amounts per event kind.
type RewardsConfig struct {
	CreatePoints      int64 `toml:"create_points"`
	JoinPoints        int64 `toml:"join_points"`
	StreakBonusPerDay int64 `toml:"streak_bonus_per_day"`
	AchievementBonus  int64 `toml:"achievement_bonus"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	home := pulseHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7312,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: home,
		},
		Rewards: RewardsConfig{
			CreatePoints:      50,
			JoinPoints:        25,
			StreakBonusPerDay: 10,
			AchievementBonus:  25,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(home, "pulse.log"),
		},
	}
}

// LoadConfig reads config from $PULSE_HOME/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(pulseHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to $PULSE_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(pulseHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// pulseHome returns the Pulse data directory.
func pulseHome() string {
	if env := os.Getenv("PULSE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pulse")
}

// PulseHome is exported for use by other packages.
func PulseHome() string {
	return pulseHome()
}
