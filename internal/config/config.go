// Package config loads the indexer's environment-variable configuration
// surface: the required database connection, GitHub credential pool, and
// the optional cache/search-index/notifier backends that fall back to
// no-ops when unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration, read once at startup from the
// environment.
type Config struct {
	DatabaseURL string

	GitHub GitHubConfig

	// RedisURL configures internal/cache; empty disables caching.
	RedisURL string

	// MeiliURL/MeiliMasterKey configure internal/searchindex; an empty
	// MeiliURL disables search indexing.
	MeiliURL       string
	MeiliMasterKey string

	// Resend configures internal/notifier; an empty APIKey disables
	// claim-indexed notifications.
	ResendAPIKey      string
	ResendFromAddress string

	// Concurrency is the default number of concurrent index-skill jobs
	// (INDEXER_CONCURRENCY).
	Concurrency int

	// MinStars is the minimum GitHub star count a repository must have to
	// be indexed (INDEXER_MIN_STARS).
	MinStars int
}

// GitHubConfig holds the rotating credential pool's settings.
type GitHubConfig struct {
	// Tokens is the credential pool (GITHUB_TOKENS, comma-separated,
	// falling back to the single-valued GITHUB_TOKEN).
	Tokens []string
	// TokenNames optionally labels each token for diagnostics
	// (GITHUB_TOKEN_NAMES, comma-separated, same order as Tokens).
	TokenNames []string
}

const (
	defaultConcurrency = 5
	defaultMinStars    = 2
)

// Load reads configuration from environment variables, applying defaults
// for everything optional. DATABASE_URL is the only required variable.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}

	cfg := &Config{
		DatabaseURL:       databaseURL,
		GitHub:            loadGitHubConfig(),
		RedisURL:          os.Getenv("REDIS_URL"),
		MeiliURL:          os.Getenv("MEILI_URL"),
		MeiliMasterKey:    os.Getenv("MEILI_MASTER_KEY"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		ResendFromAddress: os.Getenv("RESEND_FROM_ADDRESS"),
		Concurrency:       intEnv("INDEXER_CONCURRENCY", defaultConcurrency),
		MinStars:          intEnv("INDEXER_MIN_STARS", defaultMinStars),
	}

	return cfg, nil
}

func loadGitHubConfig() GitHubConfig {
	tokens := splitCSV(os.Getenv("GITHUB_TOKENS"))
	if len(tokens) == 0 {
		if single := os.Getenv("GITHUB_TOKEN"); single != "" {
			tokens = []string{single}
		}
	}
	return GitHubConfig{
		Tokens:     tokens,
		TokenNames: splitCSV(os.Getenv("GITHUB_TOKEN_NAMES")),
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// CacheEnabled reports whether a Redis cache backend is configured.
func (c *Config) CacheEnabled() bool { return c.RedisURL != "" }

// SearchIndexEnabled reports whether a Meilisearch backend is configured.
func (c *Config) SearchIndexEnabled() bool { return c.MeiliURL != "" }

// NotifierEnabled reports whether a Resend backend is configured.
func (c *Config) NotifierEnabled() bool { return c.ResendAPIKey != "" }
