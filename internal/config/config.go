package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"premiere/internal/apperr"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const DefaultEmbedColor = 9838011

type TraktConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	APIVersion   string `mapstructure:"api_version"`
	Days         int    `mapstructure:"days"`
}

type TMDBConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	PosterBaseURL string `mapstructure:"poster_base_url"`
	APIKey        string `mapstructure:"api_key"`
}

type DiscordConfig struct {
	Webhook     string `mapstructure:"webhook"`
	Color       int    `mapstructure:"color"`
	LogFailures bool   `mapstructure:"log_failures"`
}

type Config struct {
	Timezone string        `mapstructure:"timezone"`
	DryRun   bool          `mapstructure:"dry_run"`
	Discord  DiscordConfig `mapstructure:"discord"`
	TMDB     TMDBConfig    `mapstructure:"tmdb"`
	Trakt    TraktConfig   `mapstructure:"trakt"`
	HTTP     struct {
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	} `mapstructure:"http"`
	Schedule struct {
		CronSpec string `mapstructure:"cron_spec"`
	} `mapstructure:"schedule"`
	Log struct {
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	} `mapstructure:"log"`
}

// Timeout is the per-request budget for every outbound call.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dry_run", false)
	v.SetDefault("discord.color", DefaultEmbedColor)
	v.SetDefault("discord.log_failures", true)
	v.SetDefault("trakt.base_url", "https://api.trakt.tv")
	v.SetDefault("trakt.api_version", "2")
	v.SetDefault("trakt.days", 2)
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3/tv")
	v.SetDefault("tmdb.poster_base_url", "https://image.tmdb.org/t/p/original")
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("schedule.cron_spec", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
}

// Load reads the JSON config at path from fs. Every failure wraps
// apperr.ErrConfig; the caller decides whether to exit.
func Load(fs afero.Fs, path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, fmt.Errorf("%w: config file (%s) not found", apperr.ErrConfig, path)
		}
		if exists, _ := afero.Exists(fs, path); !exists {
			return cfg, fmt.Errorf("%w: config file (%s) not found", apperr.ErrConfig, path)
		}
		return cfg, fmt.Errorf("%w: error reading config file: %w", apperr.ErrConfig, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: unable to decode config: %w", apperr.ErrConfig, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.Trakt.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.Trakt.BaseURL), "/")
	c.TMDB.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.TMDB.BaseURL), "/")
	c.TMDB.PosterBaseURL = strings.TrimSpace(c.TMDB.PosterBaseURL)
	c.Discord.Webhook = strings.TrimSpace(c.Discord.Webhook)
	c.Schedule.CronSpec = strings.TrimSpace(c.Schedule.CronSpec)
}

// Validate checks the keys a run cannot proceed without.
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"timezone", c.Timezone},
		{"discord.webhook", c.Discord.Webhook},
		{"tmdb.base_url", c.TMDB.BaseURL},
		{"tmdb.api_key", c.TMDB.APIKey},
		{"trakt.base_url", c.Trakt.BaseURL},
		{"trakt.client_id", c.Trakt.ClientID},
		{"trakt.client_secret", c.Trakt.ClientSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: critical config: %s is not set", apperr.ErrConfig, r.key)
		}
	}
	if c.Trakt.Days <= 0 {
		return fmt.Errorf("%w: trakt.days must be positive, got %d", apperr.ErrConfig, c.Trakt.Days)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: http.timeout_seconds must be positive, got %d", apperr.ErrConfig, c.HTTP.TimeoutSeconds)
	}
	return nil
}
