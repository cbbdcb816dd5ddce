// Package config loads and validates search server configuration from YAML
// files with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Search    SearchConfig     `yaml:"search"`
	Logging   LoggingConfig    `yaml:"logging"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Documents []DocumentConfig `yaml:"documents"`
	Queries   []QueryConfig    `yaml:"queries"`
}

// SearchConfig controls tokenization and ranking.
type SearchConfig struct {
	StopWords        string  `yaml:"stopWords"`
	MaxResults       int     `yaml:"maxResults"`
	RelevanceEpsilon float64 `yaml:"relevanceEpsilon"`
	Stemmer          string  `yaml:"stemmer"`
	CacheSize        int     `yaml:"cacheSize"`
	RequestWindow    int     `yaml:"requestWindow"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// DocumentConfig is one document of the seed corpus.
type DocumentConfig struct {
	ID      int    `yaml:"id"`
	Text    string `yaml:"text"`
	Status  string `yaml:"status"`
	Ratings []int  `yaml:"ratings"`
}

// QueryConfig is a query run against the seeded corpus. An empty status
// means ACTUAL.
type QueryConfig struct {
	Query  string `yaml:"query"`
	Status string `yaml:"status"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Search.MaxResults < 0:
		return apperrors.Newf(apperrors.ErrInvalidArgument, "search.maxResults must not be negative, got %d", c.Search.MaxResults)
	case c.Search.RelevanceEpsilon < 0:
		return apperrors.Newf(apperrors.ErrInvalidArgument, "search.relevanceEpsilon must not be negative, got %g", c.Search.RelevanceEpsilon)
	case c.Search.CacheSize < 0:
		return apperrors.Newf(apperrors.ErrInvalidArgument, "search.cacheSize must not be negative, got %d", c.Search.CacheSize)
	case c.Search.RequestWindow < 0:
		return apperrors.Newf(apperrors.ErrInvalidArgument, "search.requestWindow must not be negative, got %d", c.Search.RequestWindow)
	}
	switch strings.ToLower(c.Search.Stemmer) {
	case "", "none", "english":
	default:
		return apperrors.Newf(apperrors.ErrInvalidArgument, "unknown search.stemmer %q", c.Search.Stemmer)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResults:       5,
			RelevanceEpsilon: 1e-6,
			CacheSize:        1024,
			RequestWindow:    1440,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "searchserver",
		},
	}
}

// applyEnvOverrides reads SP_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SP_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SP_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v, ok := os.LookupEnv("SP_SEARCH_STOP_WORDS"); ok {
		cfg.Search.StopWords = v
	}
	if v := os.Getenv("SP_SEARCH_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("SP_SEARCH_STEMMER"); v != "" {
		cfg.Search.Stemmer = v
	}
	if v := os.Getenv("SP_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}
