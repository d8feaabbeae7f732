package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spiffcs/repohealth/internal/ghclient"
	"github.com/spiffcs/repohealth/internal/health"
	"github.com/spiffcs/repohealth/internal/scan"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Token         string `yaml:"token,omitempty" json:"-"`
	DefaultFormat string `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	Query         string `yaml:"query,omitempty" json:"query,omitempty"`
	MaxRepos      int    `yaml:"max_repos,omitempty" json:"max_repos,omitempty"`
	PageSize      int    `yaml:"page_size,omitempty" json:"page_size,omitempty"`
	SortBy        string `yaml:"sort_by,omitempty" json:"sort_by,omitempty"`

	// Top-level config sections
	Thresholds *ThresholdOverrides `yaml:"thresholds,omitempty" json:"thresholds,omitempty"`
	Retry      *RetryOverrides     `yaml:"retry,omitempty" json:"retry,omitempty"`
}

// ThresholdOverrides allows customizing the health classification cutoffs
type ThresholdOverrides struct {
	OutdatedDays *int `yaml:"outdated_days,omitempty" json:"outdated_days,omitempty"`
	BrokenDays   *int `yaml:"broken_days,omitempty" json:"broken_days,omitempty"`
	BrokenIssues *int `yaml:"broken_issues,omitempty" json:"broken_issues,omitempty"`
}

// RetryOverrides allows customizing the retry/backoff behavior.
// Durations use Go syntax, e.g. "1s", "500ms", "15m".
type RetryOverrides struct {
	MaxAttempts       *int    `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	BaseDelay         *string `yaml:"base_delay,omitempty" json:"base_delay,omitempty"`
	MaxResetWait      *string `yaml:"max_reset_wait,omitempty" json:"max_reset_wait,omitempty"`
	RateLimitFallback *string `yaml:"rate_limit_fallback,omitempty" json:"rate_limit_fallback,omitempty"`
}

// Defaults returns a fully populated config with all default values.
func Defaults() *Config {
	t := health.Default()
	p := ghclient.DefaultRetryPolicy()
	baseDelay := p.BaseDelay.String()
	maxResetWait := p.MaxResetWait.String()
	fallback := p.RateLimitFallback.String()
	return &Config{
		DefaultFormat: "table",
		Query:         "stars:>100",
		MaxRepos:      100,
		PageSize:      scan.DefaultPageSize,
		SortBy:        "stars",
		Thresholds: &ThresholdOverrides{
			OutdatedDays: &t.OutdatedDays,
			BrokenDays:   &t.BrokenDays,
			BrokenIssues: &t.BrokenIssues,
		},
		Retry: &RetryOverrides{
			MaxAttempts:       &p.MaxAttempts,
			BaseDelay:         &baseDelay,
			MaxResetWait:      &maxResetWait,
			RateLimitFallback: &fallback,
		},
	}
}

// GetGitHubToken returns the configured token, falling back to the
// GITHUB_TOKEN environment variable.
func (c *Config) GetGitHubToken() string {
	if c.Token != "" {
		return c.Token
	}
	return os.Getenv("GITHUB_TOKEN")
}

// GetThresholds returns classification thresholds with user overrides merged
// with defaults
func (c *Config) GetThresholds() health.Thresholds {
	t := health.Default()
	if c.Thresholds == nil {
		return t
	}
	if c.Thresholds.OutdatedDays != nil {
		t.OutdatedDays = *c.Thresholds.OutdatedDays
	}
	if c.Thresholds.BrokenDays != nil {
		t.BrokenDays = *c.Thresholds.BrokenDays
	}
	if c.Thresholds.BrokenIssues != nil {
		t.BrokenIssues = *c.Thresholds.BrokenIssues
	}
	return t
}

// GetRetryPolicy returns the retry policy with user overrides merged with
// defaults. Durations are validated at Load time, so parse failures here
// silently keep the default.
func (c *Config) GetRetryPolicy() ghclient.RetryPolicy {
	p := ghclient.DefaultRetryPolicy()
	if c.Retry == nil {
		return p
	}
	if c.Retry.MaxAttempts != nil {
		p.MaxAttempts = *c.Retry.MaxAttempts
	}
	if d, ok := parseDuration(c.Retry.BaseDelay); ok {
		p.BaseDelay = d
	}
	if d, ok := parseDuration(c.Retry.MaxResetWait); ok {
		p.MaxResetWait = d
	}
	if d, ok := parseDuration(c.Retry.RateLimitFallback); ok {
		p.RateLimitFallback = d
	}
	return p
}

func parseDuration(s *string) (time.Duration, bool) {
	if s == nil {
		return 0, false
	}
	d, err := time.ParseDuration(*s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// validate rejects config values that would misbehave at scan time.
func (c *Config) validate() error {
	if c.MaxRepos < 0 {
		return fmt.Errorf("max_repos must not be negative, got %d", c.MaxRepos)
	}
	if c.PageSize < 0 || c.PageSize > scan.DefaultPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", scan.DefaultPageSize, c.PageSize)
	}
	if c.Retry != nil {
		for name, v := range map[string]*string{
			"base_delay":          c.Retry.BaseDelay,
			"max_reset_wait":      c.Retry.MaxResetWait,
			"rate_limit_fallback": c.Retry.RateLimitFallback,
		} {
			if v == nil {
				continue
			}
			if d, err := time.ParseDuration(*v); err != nil || d <= 0 {
				return fmt.Errorf("retry.%s: invalid duration %q", name, *v)
			}
		}
	}
	return nil
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".repohealth"
	}
	return filepath.Join(configDir, "repohealth")
}

// ConfigPath returns the path to the global config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".repohealth.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then merges
// any local .repohealth.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{
		DefaultFormat: "table",
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}

		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}

		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if local.Token != "" {
		result.Token = local.Token
	} else {
		result.Token = global.Token
	}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}

	if local.Query != "" {
		result.Query = local.Query
	} else {
		result.Query = global.Query
	}

	if local.MaxRepos != 0 {
		result.MaxRepos = local.MaxRepos
	} else {
		result.MaxRepos = global.MaxRepos
	}

	if local.PageSize != 0 {
		result.PageSize = local.PageSize
	} else {
		result.PageSize = global.PageSize
	}

	if local.SortBy != "" {
		result.SortBy = local.SortBy
	} else {
		result.SortBy = global.SortBy
	}

	result.Thresholds = mergeThresholds(global.Thresholds, local.Thresholds)
	result.Retry = mergeRetry(global.Retry, local.Retry)

	return result
}

func mergeThresholds(global, local *ThresholdOverrides) *ThresholdOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &ThresholdOverrides{}

	if global != nil {
		result.OutdatedDays = global.OutdatedDays
		result.BrokenDays = global.BrokenDays
		result.BrokenIssues = global.BrokenIssues
	}
	if local != nil {
		if local.OutdatedDays != nil {
			result.OutdatedDays = local.OutdatedDays
		}
		if local.BrokenDays != nil {
			result.BrokenDays = local.BrokenDays
		}
		if local.BrokenIssues != nil {
			result.BrokenIssues = local.BrokenIssues
		}
	}
	return result
}

func mergeRetry(global, local *RetryOverrides) *RetryOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &RetryOverrides{}

	if global != nil {
		result.MaxAttempts = global.MaxAttempts
		result.BaseDelay = global.BaseDelay
		result.MaxResetWait = global.MaxResetWait
		result.RateLimitFallback = global.RateLimitFallback
	}
	if local != nil {
		if local.MaxAttempts != nil {
			result.MaxAttempts = local.MaxAttempts
		}
		if local.BaseDelay != nil {
			result.BaseDelay = local.BaseDelay
		}
		if local.MaxResetWait != nil {
			result.MaxResetWait = local.MaxResetWait
		}
		if local.RateLimitFallback != nil {
			result.RateLimitFallback = local.RateLimitFallback
		}
	}
	return result
}
