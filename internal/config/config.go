// Package config loads and validates service configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Steam   SteamConfig   `mapstructure:"steam"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// SteamConfig points the pipeline at the Steam endpoints.
type SteamConfig struct {
	APIKey             string  `mapstructure:"api_key"`
	APIBaseURL         string  `mapstructure:"api_base_url"`
	CommunityURL       string  `mapstructure:"community_url"`
	PageSize           int     `mapstructure:"page_size"`
	DefaultAvatarURL   string  `mapstructure:"default_avatar_url"`
	EnrichPersonaNames bool    `mapstructure:"enrich_persona_names"`
	RateLimitRPS       float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst"`
}

// HTTPConfig configures the outbound HTTP clients.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load builds a Config from disk/environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("COMMENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindAliases(v); err != nil {
		return Config{}, err
	}

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

// bindAliases lets the conventional STEAM_API_KEY and PORT variables
// configure the service alongside the prefixed names.
func bindAliases(v *viper.Viper) error {
	if err := v.BindEnv("steam.api_key", "COMMENTS_STEAM_API_KEY", "STEAM_API_KEY"); err != nil {
		return fmt.Errorf("bind steam.api_key: %w", err)
	}
	if err := v.BindEnv("server.port", "COMMENTS_SERVER_PORT", "PORT"); err != nil {
		return fmt.Errorf("bind server.port: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8089)
	v.SetDefault("logging.development", true)
	v.SetDefault("steam.api_base_url", "https://api.steampowered.com")
	v.SetDefault("steam.community_url", "https://steamcommunity.com")
	v.SetDefault("steam.page_size", 1000)
	v.SetDefault("steam.default_avatar_url", "https://cdn.cloudflare.steamstatic.com/steamcommunity/public/images/avatars/48/4888d158c81bc8f1d7644321d9eb78b0048a9bda_medium.jpg")
	v.SetDefault("steam.enrich_persona_names", false)
	v.SetDefault("steam.rate_limit_rps", 0)
	v.SetDefault("steam.rate_limit_burst", 1)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "steam-profile-comments/1.0")
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be > 0")
	}
	if c.Steam.APIKey == "" {
		return errors.New("steam.api_key must be set (or STEAM_API_KEY)")
	}
	if c.Steam.APIBaseURL == "" {
		return errors.New("steam.api_base_url must be set")
	}
	if c.Steam.CommunityURL == "" {
		return errors.New("steam.community_url must be set")
	}
	if c.Steam.PageSize <= 0 {
		return errors.New("steam.page_size must be > 0")
	}
	if c.Steam.RateLimitRPS < 0 {
		return errors.New("steam.rate_limit_rps must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return errors.New("http.timeout_seconds must be > 0")
	}
	return nil
}

// HTTPTimeout converts the outbound timeout to a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
