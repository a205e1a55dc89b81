package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all cardburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Plan       PlanConfig       `toml:"plan"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	CardsFile string `toml:"cards_file,omitempty"`
	Currency  string `toml:"currency"`
}

// PlanConfig holds payoff planning defaults.
type PlanConfig struct {
	MonthlyBudget *float64 `toml:"monthly_budget,omitempty"`
	Policy        string   `toml:"policy"`
	MaxMonths     int      `toml:"max_months"`
	StartDate     string   `toml:"start_date,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "$",
		},
		Plan: PlanConfig{
			Policy:    "avalanche",
			MaxMonths: 1200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// StartTime parses the configured start date. A zero time means schedules
// use relative month markers instead of calendar labels.
func (c Config) StartTime() (time.Time, error) {
	if c.Plan.StartDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01", c.Plan.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing start_date %q (want YYYY-MM): %w", c.Plan.StartDate, err)
	}
	return t, nil
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cardburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cardburn")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
