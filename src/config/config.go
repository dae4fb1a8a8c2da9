// Package config loads customify's settings through viper. Flags, the
// environment (CUSTOMIFY_*) and a YAML config file are layered over the
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	EnvPrefix = "CUSTOMIFY"
)

type Config struct {
	Schema    string          `mapstructure:"schema" validate:"required"`
	Values    string          `mapstructure:"values" validate:"required"`
	Undo      UndoConfig      `mapstructure:"undo"`
	Session   SessionConfig   `mapstructure:"session"`
	Log       LogConfig       `mapstructure:"log"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
	Watch     bool            `mapstructure:"watch"`
}

type UndoConfig struct {
	Limit    int           `mapstructure:"limit" validate:"gte=0"`
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
}

type SessionConfig struct {
	Backend string        `mapstructure:"backend" validate:"oneof=memory file"`
	Dir     string        `mapstructure:"dir" validate:"required_if=Backend file"`
	ID      string        `mapstructure:"id"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	File   string `mapstructure:"file"`
}

type ClipboardConfig struct {
	ClearDelay time.Duration `mapstructure:"clear_delay" validate:"gte=0"`
}

func Defaults() Config {
	return Config{
		Schema: "customify.yaml",
		Values: "customify.values.yaml",
		Undo: UndoConfig{
			Limit:    100,
			Debounce: time.Second,
		},
		Session: SessionConfig{
			Backend: BackendMemory,
			Dir:     defaultStateDir(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatJSON,
			File:   "customify.log",
		},
		Clipboard: ClipboardConfig{
			ClearDelay: 10 * time.Second,
		},
	}
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "customify")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "customify")
	}
	return filepath.Join(home, ".local", "state", "customify")
}

// SetDefaults registers the defaults with v
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("schema", d.Schema)
	v.SetDefault("values", d.Values)
	v.SetDefault("undo.limit", d.Undo.Limit)
	v.SetDefault("undo.debounce", d.Undo.Debounce)
	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.dir", d.Session.Dir)
	v.SetDefault("session.id", d.Session.ID)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("clipboard.clear_delay", d.Clipboard.ClearDelay)
	v.SetDefault("watch", d.Watch)
}

// ReadConfigFile points v at a config file and reads it. An explicit path
// must exist. Without one, ./.customify/config.yaml and then
// ~/.config/customify/config.yaml are tried, and having neither is fine.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}
	if _, err := os.Stat(filepath.Join(".customify", "config.yaml")); err == nil {
		v.SetConfigFile(filepath.Join(".customify", "config.yaml"))
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "customify"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// HumanReadableLog reports whether log lines should be written for people
// instead of as JSON
func (c Config) HumanReadableLog() bool {
	return c.Log.Format == LogFormatConsole
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
