// Package config holds the villagerecords configuration, read through viper
// from config.yaml, VILLAGERECORDS_* environment variables and defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// VILLAGERECORDS_FEED_MEETINGS for feed.meetings.
const EnvPrefix = "VILLAGERECORDS"

// Config is the complete configuration.
type Config struct {
	Feed    FeedConfig    `mapstructure:"feed"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Display DisplayConfig `mapstructure:"display"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// FeedConfig locates the datasets.
type FeedConfig struct {
	// Meetings is a JSON file, a directory of meeting JSON files, or a URL.
	Meetings string `mapstructure:"meetings"`
	// Documents is a JSON file or a URL.
	Documents string `mapstructure:"documents"`
	// Sources maps meeting filenames to original document URLs.
	Sources string `mapstructure:"sources"`
	// UseMock falls back to the embedded sample data when a feed fails.
	UseMock bool `mapstructure:"use_mock"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls the on-disk cache for remote feeds.
type CacheConfig struct {
	// Dir is the cache directory. Empty disables caching.
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`
}

// DisplayConfig controls how records are presented.
type DisplayConfig struct {
	// Timezone is the IANA location dates are interpreted in.
	Timezone string `mapstructure:"timezone"`
	// Placeholder replaces missing values in rendered output.
	Placeholder string `mapstructure:"placeholder"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// File is the log file path. Empty logs to stderr.
	File string `mapstructure:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			UseMock: true,
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Dir: filepath.Join(CacheDir(), "feeds"),
			TTL: time.Hour,
		},
		Display: DisplayConfig{
			Timezone:    "America/New_York",
			Placeholder: "—",
		},
		Logging: LoggingConfig{
			Level: "WARN",
		},
	}
}

// SetDefaults registers the defaults with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("feed.meetings", defaults.Feed.Meetings)
	viper.SetDefault("feed.documents", defaults.Feed.Documents)
	viper.SetDefault("feed.sources", defaults.Feed.Sources)
	viper.SetDefault("feed.use_mock", defaults.Feed.UseMock)
	viper.SetDefault("feed.timeout", defaults.Feed.Timeout)

	viper.SetDefault("cache.dir", defaults.Cache.Dir)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)

	viper.SetDefault("display.timezone", defaults.Display.Timezone)
	viper.SetDefault("display.placeholder", defaults.Display.Placeholder)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Init prepares viper: defaults, config file lookup and environment
// overrides. An explicit cfgFile replaces the search path. A missing config
// file is not an error; an unreadable one is.
func Init(cfgFile string) error {
	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Location returns the display time zone. Validate guarantees it resolves;
// an unresolvable name falls back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ConfigDir returns the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "villagerecords")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".villagerecords"
	}
	return filepath.Join(home, ".config", "villagerecords")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// CacheDir returns the user's cache directory for villagerecords.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "villagerecords")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".villagerecords-cache"
	}
	return filepath.Join(home, ".cache", "villagerecords")
}
