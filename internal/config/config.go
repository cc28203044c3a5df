// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the config reads (MONOTRIBUTO_STORE_PATH, ...).
const EnvPrefix = "MONOTRIBUTO"

// Config represents the CLI configuration. Every field has a default, can be set in a
// config file, and can be overridden from the environment.
type Config struct {
	// Sources
	CurrentURL       string `mapstructure:"current_url"`        // Live categories page
	HistoryBaseURL   string `mapstructure:"history_base_url"`   // Base for historical document paths
	HistorySourceURL string `mapstructure:"history_source_url"` // Page listing previous categories (metadata only)
	InflationURL     string `mapstructure:"inflation_url"`      // Monthly inflation index endpoint

	// Paths
	StorePath     string `mapstructure:"store_path"`     // Aggregated JSON dataset
	DocsDir       string `mapstructure:"docs_dir"`       // Local cache of downloaded documents
	ChartsDir     string `mapstructure:"charts_dir"`     // Chart output directory
	IndexPath     string `mapstructure:"index_path"`     // Generated landing page
	IndexTemplate string `mapstructure:"index_template"` // Optional template overriding the embedded one
	SchemaPath    string `mapstructure:"schema_path"`    // JSON Schema for the store

	// Current period defaults for the live page
	CurrentStart string `mapstructure:"current_start"`
	CurrentEnd   string `mapstructure:"current_end"`
	// CurrentStartPinned is true when current_start comes from the config file or the
	// environment rather than the default.
	CurrentStartPinned bool `mapstructure:"-"`

	// Network
	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
	DownloadInterval time.Duration `mapstructure:"download_interval"`

	// Optional PostgreSQL mirror
	DatabaseURL string `mapstructure:"database_url"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// defaults holds every key with its default value; keys must be registered for
// environment overrides to reach Unmarshal.
var defaults = map[string]interface{}{
	"current_url":        "https://www.afip.gob.ar/monotributo/categorias.asp",
	"history_base_url":   "https://www.afip.gob.ar/monotributo/",
	"history_source_url": "https://www.afip.gob.ar/monotributo/montos-y-categorias-anteriores.asp",
	"inflation_url":      "https://api.argentinadatos.com/v1/finanzas/indices/inflacion",
	"store_path":         "data/monotributo_historico.json",
	"docs_dir":           "pdfs",
	"charts_dir":         "graficos",
	"index_path":         "index.html",
	"index_template":     "",
	"schema_path":        "schemas/monotributo_historico.schema.json",
	"current_start":      "2025-08-01",
	"current_end":        "2099-12-31",
	"http_timeout":       "30s",
	"download_interval":  "1s",
	"database_url":       "",
	"log_level":          "info",
	"log_format":         "text",
}

// Load reads configuration from defaults, the optional config file at path, and the
// environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	_, fromEnv := os.LookupEnv(EnvPrefix + "_CURRENT_START")
	cfg.CurrentStartPinned = fromEnv || v.InConfig("current_start")

	return &cfg, nil
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// defaults are static and always decode
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	urls := map[string]string{
		"current_url":      c.CurrentURL,
		"history_base_url": c.HistoryBaseURL,
		"inflation_url":    c.InflationURL,
	}
	for name, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config error: '%s' must be an absolute URL, got %q", name, raw)
		}
	}

	if c.StorePath == "" {
		return fmt.Errorf("config error: 'store_path' must not be empty")
	}

	for name, value := range map[string]string{"current_start": c.CurrentStart, "current_end": c.CurrentEnd} {
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return fmt.Errorf("config error: '%s' must be a YYYY-MM-DD date, got %q", name, value)
		}
	}
	if c.CurrentEnd < c.CurrentStart {
		return fmt.Errorf("config error: 'current_end' is before 'current_start'")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config error: 'http_timeout' must be positive")
	}
	if c.DownloadInterval < 0 {
		return fmt.Errorf("config error: 'download_interval' must be non-negative")
	}

	return nil
}
