package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Timer   TimerConfig   `mapstructure:"timer"`
	Notes   NotesConfig   `mapstructure:"notes"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// TimerConfig defines session lengths in minutes
type TimerConfig struct {
	WorkMinutes  int `mapstructure:"work_minutes"`
	BreakMinutes int `mapstructure:"break_minutes"`
}

// NotesConfig defines notes autosave behavior
type NotesConfig struct {
	AutosaveDelay string `mapstructure:"autosave_delay"`
	ExportDir     string `mapstructure:"export_dir"`
}

// AudioConfig defines the volume used before anything was saved
type AudioConfig struct {
	DefaultVolume float64 `mapstructure:"default_volume"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type      string      `mapstructure:"type"` // "sqlite", "redis" or "memory"
	Path      string      `mapstructure:"path"`
	CacheSize int         `mapstructure:"cache_size"`
	Redis     RedisConfig `mapstructure:"redis"`
}

// RedisConfig defines Redis connection settings
type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	Prefix       string `mapstructure:"prefix"`
	DialTimeout  string `mapstructure:"dial_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load loads configuration from file and environment variables. An empty
// configPath or a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DataDir())
	}
	v.SetEnvPrefix("FOCUSPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DataDir is where the database, log file and config live by default.
func DataDir() string {
	if env := os.Getenv("FOCUSPAD_HOME"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focuspad"
	}
	return filepath.Join(home, ".focuspad")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timer.work_minutes", 25)
	v.SetDefault("timer.break_minutes", 5)

	v.SetDefault("notes.autosave_delay", "1s")
	v.SetDefault("notes.export_dir", ".")

	v.SetDefault("audio.default_volume", 0.3)

	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.path", filepath.Join(DataDir(), "focuspad.db"))
	v.SetDefault("storage.cache_size", 64)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "focuspad:")
	v.SetDefault("storage.redis.dial_timeout", "5s")
	v.SetDefault("storage.redis.read_timeout", "3s")
	v.SetDefault("storage.redis.write_timeout", "3s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", filepath.Join(DataDir(), "focuspad.log"))

	v.SetDefault("metrics.addr", "")
}

func validate(cfg *Config) error {
	if cfg.Timer.WorkMinutes <= 0 {
		return fmt.Errorf("invalid work minutes: %d", cfg.Timer.WorkMinutes)
	}
	if cfg.Timer.BreakMinutes <= 0 {
		return fmt.Errorf("invalid break minutes: %d", cfg.Timer.BreakMinutes)
	}

	if _, err := time.ParseDuration(cfg.Notes.AutosaveDelay); err != nil {
		return fmt.Errorf("invalid notes autosave delay: %w", err)
	}

	if cfg.Audio.DefaultVolume < 0 || cfg.Audio.DefaultVolume > 1 {
		return fmt.Errorf("default volume must be within [0,1]: %v", cfg.Audio.DefaultVolume)
	}

	switch cfg.Storage.Type {
	case "sqlite":
		if cfg.Storage.Path == "" {
			return fmt.Errorf("storage path is required for sqlite")
		}
	case "redis":
		if cfg.Storage.Redis.Addr == "" {
			return fmt.Errorf("redis address is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage type: %q", cfg.Storage.Type)
	}

	return nil
}

// ParseDuration parses a duration string with a fallback
func ParseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
