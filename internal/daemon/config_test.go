package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 7312 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 7312)
	}
	if cfg.Rewards.CreatePoints != 50 {
		t.Errorf("Rewards.CreatePoints = %d, want 50", cfg.Rewards.CreatePoints)
	}
	if cfg.Rewards.JoinPoints != 25 {
		t.Errorf("Rewards.JoinPoints = %d, want 25", cfg.Rewards.JoinPoints)
	}
	if cfg.Rewards.StreakBonusPerDay != 10 {
		t.Errorf("Rewards.StreakBonusPerDay = %d, want 10", cfg.Rewards.StreakBonusPerDay)
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("expected Prometheus enabled by default")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("PULSE_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load without file: %v", err)
	}
	if cfg.API.Port != 7312 {
		t.Errorf("expected defaults when no file exists, got port %d", cfg.API.Port)
	}
}

func TestSaveLoadConfig_RoundTrip(t *testing.T) {
	t.Setenv("PULSE_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9000
	cfg.Rewards.CreatePoints = 75

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.Port != 9000 {
		t.Errorf("port = %d, want 9000", loaded.API.Port)
	}
	if loaded.Rewards.CreatePoints != 75 {
		t.Errorf("create points = %d, want 75", loaded.Rewards.CreatePoints)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PULSE_HOME", dir)

	partial := "[api]\nport = 8123\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(partial), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8123 {
		t.Errorf("port = %d, want 8123", cfg.API.Port)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Rewards.JoinPoints != 25 {
		t.Errorf("join points = %d, want default 25", cfg.Rewards.JoinPoints)
	}
}

func TestPulseHome_EnvOverride(t *testing.T) {
	t.Setenv("PULSE_HOME", "/tmp/pulse-test-home")
	if got := PulseHome(); got != "/tmp/pulse-test-home" {
		t.Errorf("PulseHome() = %q, want env override", got)
	}
}
