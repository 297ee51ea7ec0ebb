package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DBPath    string    `mapstructure:"db_path"`
	Log       Log       `mapstructure:"log"`
	Analytics Analytics `mapstructure:"analytics"`
	Output    Output    `mapstructure:"output"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Analytics struct {
	WindowDays int `mapstructure:"window_days"`
}

type Output struct {
	Color bool `mapstructure:"color"`
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from cfgFile, or config.yaml in the default
// directory when cfgFile is empty. A missing file yields the defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", filepath.Join(DefaultConfigDir, DefaultLogName))
	v.SetDefault("analytics.window_days", DefaultWindowDays)
	v.SetDefault("output.color", DefaultOutput.Color)

	v.SetEnvPrefix("HABITR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if !validLevels[cfg.Log.Level] {
		return nil, fmt.Errorf("invalid log.level %q", cfg.Log.Level)
	}
	if cfg.Analytics.WindowDays <= 0 {
		cfg.Analytics.WindowDays = DefaultWindowDays
	}
	return &cfg, nil
}

// Dir returns the expanded configuration directory.
func Dir() string {
	return expandPath(DefaultConfigDir)
}
