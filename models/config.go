// Package models defines data structures shared across commands.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvToken and EnvDatabaseID are the two required environment variables for
// anything that talks to Notion.
const (
	EnvToken      = "NOTION_TOKEN"
	EnvDatabaseID = "NOTION_DATABASE_ID"
	EnvDiscordURL = "DISCORD_WEBHOOK_URL"
)

// Credentials holds the secrets read from the environment. Both fields must be
// non-empty before any network call is attempted.
type Credentials struct {
	Token      string
	DatabaseID string
}

// CredentialsFromEnv reads and validates the Notion credentials. It fails
// before any I/O so a misconfigured run never reaches the network.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		Token:      os.Getenv(EnvToken),
		DatabaseID: os.Getenv(EnvDatabaseID),
	}
	if creds.Token == "" {
		return Credentials{}, fmt.Errorf("missing required environment variable %s", EnvToken)
	}
	if creds.DatabaseID == "" {
		return Credentials{}, fmt.Errorf("missing required environment variable %s", EnvDatabaseID)
	}
	return creds, nil
}

// BriefingConfig holds runtime configuration for briefing runs. Values come
// from an optional YAML file; anything unset falls back to defaults.
type BriefingConfig struct {
	Feeds            []string `yaml:"feeds"`
	MaxItems         int      `yaml:"max_items"`
	MaxAgeHours      int      `yaml:"max_age_hours"`
	WorkerCount      int      `yaml:"workers"`
	TrendingItems    int      `yaml:"trending_items"`
	MonthlyBudgetUSD float64  `yaml:"monthly_budget_usd"`
	RunCostUSD       float64  `yaml:"run_cost_usd"`
	MaxFetchesPerHr  int      `yaml:"max_fetches_per_hour"`
	MaxRunsPerDay    int      `yaml:"max_runs_per_day"`
	DataDir          string   `yaml:"data_dir"`
}

// DefaultBriefingConfig returns the built-in configuration used when no
// config file is supplied.
func DefaultBriefingConfig() BriefingConfig {
	return BriefingConfig{
		Feeds: []string{
			"https://hnrss.org/frontpage",
			"https://www.reddit.com/r/LocalLLaMA/.rss",
			"https://huggingface.co/blog/feed.xml",
		},
		MaxItems:         10,
		MaxAgeHours:      24,
		WorkerCount:      4,
		TrendingItems:    5,
		MonthlyBudgetUSD: 5.0,
		RunCostUSD:       0.01,
		MaxFetchesPerHr:  2,
		MaxRunsPerDay:    4,
		DataDir:          "data",
	}
}

// LoadBriefingConfig reads a YAML config file and merges it over the
// defaults. An empty path returns the defaults unchanged.
func LoadBriefingConfig(path string) (BriefingConfig, error) {
	cfg := DefaultBriefingConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values that would make a run misbehave silently.
func (c BriefingConfig) Validate() error {
	if c.MaxItems < 1 {
		return fmt.Errorf("max_items must be at least 1, got %d", c.MaxItems)
	}
	if c.MaxAgeHours < 1 {
		return fmt.Errorf("max_age_hours must be at least 1, got %d", c.MaxAgeHours)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.WorkerCount)
	}
	if c.MonthlyBudgetUSD <= 0 {
		return fmt.Errorf("monthly_budget_usd must be positive, got %.2f", c.MonthlyBudgetUSD)
	}
	return nil
}
