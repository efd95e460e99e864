// Package config holds every tunable threshold and weight used by the engine,
// plus the host's logging preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"focus-tools/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	envConfigDir  = "FOCUS_CONFIG_DIR"
	envConfigFile = "FOCUS_CONFIG"
	fileName      = "config.yaml"
)

type Config struct {
	// DayStartHour is the local hour (0-23) at which a logical day begins.
	DayStartHour int `yaml:"dayStartHour"`

	// Energy is the default declared energy when none has been set.
	Energy model.EnergyLevel `yaml:"energy,omitempty"`
	// EnergyFilter is "show_all" or "hide_mismatched".
	EnergyFilter string `yaml:"energyFilter"`

	Health     Health     `yaml:"health"`
	Priority   Priority   `yaml:"priority"`
	Recurrence Recurrence `yaml:"recurrence"`
	Log        Log        `yaml:"log"`
}

type Health struct {
	WaitingOnStaleDays  int `yaml:"waitingOnStaleDays"`
	DeadlineWarningDays int `yaml:"deadlineWarningDays"`
	StaleDays           int `yaml:"staleDays"`
}

type Priority struct {
	DeadlineWindowDays   int        `yaml:"deadlineWindowDays"`
	StalenessCeilingDays int        `yaml:"stalenessCeilingDays"`
	Weights              Weights    `yaml:"weights"`
	Tiers                Tiers      `yaml:"tiers"`
	Importance           Importance `yaml:"importance"`
}

type Weights struct {
	Deadline   float64 `yaml:"deadline"`
	Importance float64 `yaml:"importance"`
	Energy     float64 `yaml:"energy"`
	Staleness  float64 `yaml:"staleness"`
}

// Tiers are inclusive lower bounds on the score; anything below Medium is low.
type Tiers struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
}

type Importance struct {
	MustDo      float64 `yaml:"mustDo"`
	ShouldDo    float64 `yaml:"shouldDo"`
	CouldDo     float64 `yaml:"couldDo"`
	WouldLikeTo float64 `yaml:"wouldLikeTo"`
}

type Recurrence struct {
	// RolloverScanDays bounds the backward search for a missed occurrence.
	RolloverScanDays int `yaml:"rolloverScanDays"`
	// MaxScanDays bounds streak and next-due walks.
	MaxScanDays int `yaml:"maxScanDays"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	EnergyFilterShowAll        = "show_all"
	EnergyFilterHideMismatched = "hide_mismatched"
)

// Default returns the stock configuration.
func Default() Config {
	return Config{
		DayStartHour: 0,
		EnergyFilter: EnergyFilterShowAll,
		Health: Health{
			WaitingOnStaleDays:  14,
			DeadlineWarningDays: 3,
			StaleDays:           21,
		},
		Priority: Priority{
			DeadlineWindowDays:   14,
			StalenessCeilingDays: 30,
			Weights: Weights{
				Deadline:   0.40,
				Importance: 0.30,
				Energy:     0.15,
				Staleness:  0.15,
			},
			Tiers: Tiers{
				Critical: 0.70,
				High:     0.50,
				Medium:   0.30,
			},
			Importance: Importance{
				MustDo:      1.0,
				ShouldDo:    0.6,
				CouldDo:     0.3,
				WouldLikeTo: 0.1,
			},
		},
		Recurrence: Recurrence{
			RolloverScanDays: 90,
			MaxScanDays:      3660,
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks ranges that would otherwise produce nonsense scores.
func (c Config) Validate() error {
	var errs []error
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		errs = append(errs, fmt.Errorf("dayStartHour must be 0-23, got %d", c.DayStartHour))
	}
	switch c.Energy {
	case "", model.EnergyHigh, model.EnergyMedium, model.EnergyLow:
	default:
		errs = append(errs, fmt.Errorf("energy must be high|medium|low, got %q", c.Energy))
	}
	switch c.EnergyFilter {
	case EnergyFilterShowAll, EnergyFilterHideMismatched:
	default:
		errs = append(errs, fmt.Errorf("energyFilter must be %s|%s, got %q", EnergyFilterShowAll, EnergyFilterHideMismatched, c.EnergyFilter))
	}
	if c.Health.WaitingOnStaleDays < 1 || c.Health.StaleDays < 1 || c.Health.DeadlineWarningDays < 0 {
		errs = append(errs, errors.New("health thresholds must be positive"))
	}
	if c.Priority.DeadlineWindowDays < 1 || c.Priority.StalenessCeilingDays < 1 {
		errs = append(errs, errors.New("priority windows must be at least one day"))
	}
	w := c.Priority.Weights
	if w.Deadline < 0 || w.Importance < 0 || w.Energy < 0 || w.Staleness < 0 {
		errs = append(errs, errors.New("priority weights must not be negative"))
	}
	if sum := w.Deadline + w.Importance + w.Energy + w.Staleness; sum <= 0 {
		errs = append(errs, errors.New("priority weights must not all be zero"))
	}
	tr := c.Priority.Tiers
	if !(tr.Critical >= tr.High && tr.High >= tr.Medium && tr.Medium >= 0) {
		errs = append(errs, fmt.Errorf("tier thresholds must be ordered critical >= high >= medium >= 0"))
	}
	if c.Recurrence.RolloverScanDays < 1 || c.Recurrence.MaxScanDays < 1 {
		errs = append(errs, errors.New("recurrence scan bounds must be positive"))
	}
	return errors.Join(errs...)
}

// Dir returns the configuration directory. FOCUS_CONFIG_DIR overrides ~/.focus.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(envConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".focus"), nil
}

// Path resolves the config file: explicit path, then FOCUS_CONFIG, then <Dir>/config.yaml.
func Path(explicit string) (string, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(os.Getenv(envConfigFile)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads a YAML file layered over Default. A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
