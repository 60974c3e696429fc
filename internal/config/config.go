// Package config loads and validates service configuration via Viper.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Apify   ApifyConfig   `mapstructure:"apify"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ApifyConfig points at the upstream lead source.
type ApifyConfig struct {
	Token             string `mapstructure:"token"`
	BaseURL           string `mapstructure:"base_url"`
	Actor             string `mapstructure:"actor"`
	Language          string `mapstructure:"language"`
	DefaultMaxResults int    `mapstructure:"default_max_results"`
}

// EnrichConfig governs the website probing pipeline.
type EnrichConfig struct {
	Concurrency           int    `mapstructure:"concurrency"`
	UserAgent             string `mapstructure:"user_agent"`
	HomeTimeoutSeconds    int    `mapstructure:"home_timeout_seconds"`
	ContactTimeoutSeconds int    `mapstructure:"contact_timeout_seconds"`
	ContactPath           string `mapstructure:"contact_path"`
}

// StorageConfig sets the result and frontend asset directories.
type StorageConfig struct {
	ResultsDir string `mapstructure:"results_dir"`
	StaticDir  string `mapstructure:"static_dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEADFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The classic env var name keeps working alongside LEADFLOW_APIFY_TOKEN.
	_ = v.BindEnv("apify.token", "LEADFLOW_APIFY_TOKEN", "APIFY_API_TOKEN")

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, eris.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("apify.token", "")
	v.SetDefault("apify.base_url", "https://api.apify.com")
	v.SetDefault("apify.actor", "apify~google-maps-scraper")
	v.SetDefault("apify.language", "pl")
	v.SetDefault("apify.default_max_results", 20)
	v.SetDefault("enrich.concurrency", 16)
	v.SetDefault("enrich.user_agent", "LeadFlowBot/1.0")
	v.SetDefault("enrich.home_timeout_seconds", 10)
	v.SetDefault("enrich.contact_timeout_seconds", 5)
	v.SetDefault("enrich.contact_path", "/kontakt")
	v.SetDefault("storage.results_dir", "results")
	v.SetDefault("storage.static_dir", "static")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. The Apify token is
// deliberately not required here: a missing token fails jobs, not the process.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return eris.New("server.port must be > 0")
	}
	if c.Enrich.Concurrency <= 0 {
		return eris.New("enrich.concurrency must be > 0")
	}
	if c.Enrich.HomeTimeoutSeconds <= 0 {
		return eris.New("enrich.home_timeout_seconds must be > 0")
	}
	if c.Enrich.ContactTimeoutSeconds <= 0 {
		return eris.New("enrich.contact_timeout_seconds must be > 0")
	}
	if c.Apify.DefaultMaxResults <= 0 {
		return eris.New("apify.default_max_results must be > 0")
	}
	if strings.TrimSpace(c.Storage.ResultsDir) == "" {
		return eris.New("storage.results_dir must be set")
	}
	return nil
}

// HomeTimeout returns the homepage fetch timeout as a duration.
func (c Config) HomeTimeout() time.Duration {
	return time.Duration(c.Enrich.HomeTimeoutSeconds) * time.Second
}

// ContactTimeout returns the contact-page fetch timeout as a duration.
func (c Config) ContactTimeout() time.Duration {
	return time.Duration(c.Enrich.ContactTimeoutSeconds) * time.Second
}
