// Package config loads and validates archiver configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
// It is built once at startup and passed explicitly to the components
// that need it; nothing reads configuration from ambient global state.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the status HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs the crawl pipeline.
type CrawlerConfig struct {
	RootURL             string `mapstructure:"root_url"`
	StoryLimit          int    `mapstructure:"story_limit"`
	PerHostConns        int    `mapstructure:"per_host_conns"`
	TotalConns          int    `mapstructure:"total_conns"`
	FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds"`
	PeriodSeconds       int    `mapstructure:"period_seconds"`
	UserAgent           string `mapstructure:"user_agent"`
}

// StorageConfig sets the content store root.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NEWSHOUND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawler.root_url", "https://news.ycombinator.com/")
	v.SetDefault("crawler.story_limit", 30)
	v.SetDefault("crawler.per_host_conns", 1)
	v.SetDefault("crawler.total_conns", 0) // 0 means 30x per_host_conns
	v.SetDefault("crawler.fetch_timeout_seconds", 10)
	v.SetDefault("crawler.period_seconds", 240)
	v.SetDefault("crawler.user_agent", "newshound/0.1")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.RootURL == "" {
		return fmt.Errorf("crawler.root_url must be set")
	}
	if !strings.HasSuffix(c.Crawler.RootURL, "/") {
		return fmt.Errorf("crawler.root_url must end with a slash")
	}
	if c.Crawler.StoryLimit <= 0 {
		return fmt.Errorf("crawler.story_limit must be > 0")
	}
	if c.Crawler.PerHostConns <= 0 {
		return fmt.Errorf("crawler.per_host_conns must be > 0")
	}
	if c.Crawler.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.fetch_timeout_seconds must be > 0")
	}
	if c.Crawler.PeriodSeconds <= 0 {
		return fmt.Errorf("crawler.period_seconds must be > 0")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must be set")
	}
	return nil
}

// FetchTimeout returns the per-request timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Crawler.FetchTimeoutSeconds) * time.Second
}

// Period returns the crawl period as a duration.
func (c Config) Period() time.Duration {
	return time.Duration(c.Crawler.PeriodSeconds) * time.Second
}
