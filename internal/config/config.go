package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration of cq.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Sound   SoundConfig   `yaml:"sound" mapstructure:"sound"`
	Timers  TimersConfig  `yaml:"timers" mapstructure:"timers"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

type StorageConfig struct {
	// Path of the SQLite database; empty means ~/.cleanquest/cleanquest.db.
	Path string `yaml:"path" mapstructure:"path"`
}

type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type SoundConfig struct {
	Enabled bool    `yaml:"enabled" mapstructure:"enabled"`
	Dir     string  `yaml:"dir" mapstructure:"dir"`
	Volume  float64 `yaml:"volume" mapstructure:"volume"`
}

type TimersConfig struct {
	BreakTick  time.Duration `yaml:"break_tick" mapstructure:"break_tick"`
	ActiveTick time.Duration `yaml:"active_tick" mapstructure:"active_tick"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

const envPrefix = "CLEANQUEST"

// Dir is the per-user CleanQuest directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cleanquest"
	}
	return filepath.Join(home, ".cleanquest")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{Dir: "."},
		Sound: SoundConfig{
			Enabled: true,
			Dir:     filepath.Join(Dir(), "sounds"),
			Volume:  0,
		},
		Timers: TimersConfig{
			BreakTick:  time.Second,
			ActiveTick: time.Minute,
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads the YAML file at path (DefaultPath when empty) over the
// defaults, then applies CLEANQUEST_* environment overrides such as
// CLEANQUEST_LOG_LEVEL. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("export.dir", cfg.Export.Dir)
	v.SetDefault("sound.enabled", cfg.Sound.Enabled)
	v.SetDefault("sound.dir", cfg.Sound.Dir)
	v.SetDefault("sound.volume", cfg.Sound.Volume)
	v.SetDefault("timers.break_tick", cfg.Timers.BreakTick)
	v.SetDefault("timers.active_tick", cfg.Timers.ActiveTick)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

func (c *Config) Validate() error {
	if c.Timers.BreakTick <= 0 {
		return fmt.Errorf("timers.break_tick must be positive, got %s", c.Timers.BreakTick)
	}
	if c.Timers.ActiveTick <= 0 {
		return fmt.Errorf("timers.active_tick must be positive, got %s", c.Timers.ActiveTick)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// WriteDefault writes the default configuration to path unless a file exists.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	return Save(path, DefaultConfig())
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
