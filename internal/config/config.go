// Package config loads dialclock settings from a config file, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/sadopc/dialclock/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. DIALCLOCK_DB.
const EnvPrefix = "DIALCLOCK"

type Config struct {
	DBPath       string
	LogLevel     string
	LogFile      string
	Focus        string // auto, am or pm
	SoundCommand string
	SoundDir     string
	Tick         time.Duration
	Transition   time.Duration
}

// Load reads .dialclock.yaml from the working directory, the user's home or
// the explicit file, then applies .env and DIALCLOCK_* overrides. A missing
// config file is not an error.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	defaultDB, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("default db path: %w", err)
	}

	v := viper.New()
	v.SetDefault("db", defaultDB)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(filepath.Dir(defaultDB), "dialclock.log"))
	v.SetDefault("focus", "auto")
	v.SetDefault("sound.command", "")
	v.SetDefault("sound.dir", "")
	v.SetDefault("tick", "500ms")
	v.SetDefault("transition", "1s")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".dialclock")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(file == "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:     strings.ToLower(v.GetString("log.level")),
		Focus:        strings.ToLower(v.GetString("focus")),
		SoundCommand: v.GetString("sound.command"),
		Tick:         v.GetDuration("tick"),
		Transition:   v.GetDuration("transition"),
	}
	if cfg.DBPath, err = homedir.Expand(v.GetString("db")); err != nil {
		return nil, fmt.Errorf("expand db path: %w", err)
	}
	if cfg.LogFile, err = homedir.Expand(v.GetString("log.file")); err != nil {
		return nil, fmt.Errorf("expand log file: %w", err)
	}
	if cfg.SoundDir, err = homedir.Expand(v.GetString("sound.dir")); err != nil {
		return nil, fmt.Errorf("expand sound dir: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Focus {
	case "auto", "am", "pm":
	default:
		return fmt.Errorf("invalid focus %q: want auto, am or pm", c.Focus)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("invalid tick %s: must be positive", c.Tick)
	}
	if c.Transition < 0 {
		return fmt.Errorf("invalid transition %s: must not be negative", c.Transition)
	}
	return nil
}
