package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Engine holds all configuration for the power engine and its tools.
type Engine struct {
	LogLevel string `yaml:"log_level"`

	// Simulation
	FramesPerSecond int    `yaml:"frames_per_second"`
	RandomSeed      uint64 `yaml:"random_seed"` // 0 = seeded from time

	// Definition sources
	EffectsFile string `yaml:"effects_file"`
	PowersFile  string `yaml:"powers_file"`
	FromDB      bool   `yaml:"from_db"` // read records from the content database instead of files

	// Vocabulary used to validate post_effect references
	Elements []string `yaml:"elements"`
	StatKeys []string `yaml:"stat_keys"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Telemetry
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// TelemetryConfig toggles OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultEngine returns Engine config with sensible defaults.
func DefaultEngine() Engine {
	return Engine{
		LogLevel:        "info",
		FramesPerSecond: 60,
		EffectsFile:     "data/powers/effects.txt",
		PowersFile:      "data/powers/powers.txt",
		Elements:        []string{"fire", "ice", "lightning", "shadow", "light", "poison"},
		StatKeys: []string{
			"hp", "hp_regen", "mp", "mp_regen",
			"accuracy", "avoidance", "absorb_min", "absorb_max",
			"crit", "dmg_melee_min", "dmg_melee_max", "dmg_ranged_min", "dmg_ranged_max",
			"dmg_ment_min", "dmg_ment_max", "poise", "reflect_chance",
			"hp_steal", "mp_steal", "xp_gain", "currency_find", "item_find",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "powercore",
			Password: "powercore",
			DBName:   "powercore",
			SSLMode:  "disable",
		},
	}
}

// LoadEngine loads engine config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.FramesPerSecond <= 0 {
		return cfg, fmt.Errorf("config %s: frames_per_second must be positive, got %d", path, cfg.FramesPerSecond)
	}

	return cfg, nil
}

// SlogLevel converts LogLevel into a slog.Level, defaulting to Info.
func (e Engine) SlogLevel() slog.Level {
	switch e.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
