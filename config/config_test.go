package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/repohealth/internal/ghclient"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestGetGitHubToken(t *testing.T) {
	t.Run("config value wins", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		cfg := &Config{Token: "config-token"}
		if got := cfg.GetGitHubToken(); got != "config-token" {
			t.Errorf("GetGitHubToken() = %q, want config-token", got)
		}
	})

	t.Run("falls back to environment", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		cfg := &Config{}
		if got := cfg.GetGitHubToken(); got != "env-token" {
			t.Errorf("GetGitHubToken() = %q, want env-token", got)
		}
	})

	t.Run("empty when unset", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		cfg := &Config{}
		if got := cfg.GetGitHubToken(); got != "" {
			t.Errorf("GetGitHubToken() = %q, want empty", got)
		}
	})
}

func TestGetThresholds(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		cfg := &Config{}
		got := cfg.GetThresholds()
		if got.OutdatedDays != 365 || got.BrokenDays != 180 || got.BrokenIssues != 10 {
			t.Errorf("GetThresholds() = %+v, want 365/180/10", got)
		}
	})

	t.Run("partial override keeps remaining defaults", func(t *testing.T) {
		cfg := &Config{Thresholds: &ThresholdOverrides{
			OutdatedDays: intPtr(730),
		}}
		got := cfg.GetThresholds()
		if got.OutdatedDays != 730 {
			t.Errorf("OutdatedDays = %d, want 730", got.OutdatedDays)
		}
		if got.BrokenDays != 180 || got.BrokenIssues != 10 {
			t.Errorf("BrokenDays/BrokenIssues = %d/%d, want 180/10", got.BrokenDays, got.BrokenIssues)
		}
	})

	t.Run("full override", func(t *testing.T) {
		cfg := &Config{Thresholds: &ThresholdOverrides{
			OutdatedDays: intPtr(100),
			BrokenDays:   intPtr(50),
			BrokenIssues: intPtr(5),
		}}
		got := cfg.GetThresholds()
		if got.OutdatedDays != 100 || got.BrokenDays != 50 || got.BrokenIssues != 5 {
			t.Errorf("GetThresholds() = %+v, want 100/50/5", got)
		}
	})
}

func TestGetRetryPolicy(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		cfg := &Config{}
		got := cfg.GetRetryPolicy()
		want := ghclient.DefaultRetryPolicy()
		if got != want {
			t.Errorf("GetRetryPolicy() = %+v, want %+v", got, want)
		}
	})

	t.Run("overrides merge over defaults", func(t *testing.T) {
		cfg := &Config{Retry: &RetryOverrides{
			MaxAttempts: intPtr(5),
			BaseDelay:   strPtr("500ms"),
		}}
		got := cfg.GetRetryPolicy()
		if got.MaxAttempts != 5 {
			t.Errorf("MaxAttempts = %d, want 5", got.MaxAttempts)
		}
		if got.BaseDelay != 500*time.Millisecond {
			t.Errorf("BaseDelay = %v, want 500ms", got.BaseDelay)
		}
		if got.MaxResetWait != ghclient.DefaultMaxResetWait {
			t.Errorf("MaxResetWait = %v, want default %v", got.MaxResetWait, ghclient.DefaultMaxResetWait)
		}
	})

	t.Run("invalid duration keeps default", func(t *testing.T) {
		cfg := &Config{Retry: &RetryOverrides{
			BaseDelay: strPtr("not-a-duration"),
		}}
		got := cfg.GetRetryPolicy()
		if got.BaseDelay != ghclient.DefaultBaseDelay {
			t.Errorf("BaseDelay = %v, want default %v", got.BaseDelay, ghclient.DefaultBaseDelay)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid config",
			cfg:  Config{MaxRepos: 200, PageSize: 50},
		},
		{
			name:    "negative max repos",
			cfg:     Config{MaxRepos: -1},
			wantErr: "max_repos",
		},
		{
			name:    "page size over API maximum",
			cfg:     Config{PageSize: 500},
			wantErr: "page_size",
		},
		{
			name:    "bad retry duration",
			cfg:     Config{Retry: &RetryOverrides{BaseDelay: strPtr("fast")}},
			wantErr: "retry.base_delay",
		},
		{
			name:    "negative retry duration",
			cfg:     Config{Retry: &RetryOverrides{MaxResetWait: strPtr("-5m")}},
			wantErr: "retry.max_reset_wait",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMergeConfig(t *testing.T) {
	global := &Config{
		Token:         "global-token",
		DefaultFormat: "table",
		Query:         "stars:>100",
		MaxRepos:      100,
		Thresholds:    &ThresholdOverrides{OutdatedDays: intPtr(365)},
		Retry:         &RetryOverrides{MaxAttempts: intPtr(3)},
	}
	local := &Config{
		DefaultFormat: "json",
		MaxRepos:      50,
		Thresholds:    &ThresholdOverrides{BrokenIssues: intPtr(20)},
	}

	merged := mergeConfig(global, local)

	if merged.Token != "global-token" {
		t.Errorf("Token = %q, want global-token", merged.Token)
	}
	if merged.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %q, want json (local wins)", merged.DefaultFormat)
	}
	if merged.Query != "stars:>100" {
		t.Errorf("Query = %q, want global value", merged.Query)
	}
	if merged.MaxRepos != 50 {
		t.Errorf("MaxRepos = %d, want 50 (local wins)", merged.MaxRepos)
	}
	if merged.Thresholds == nil || merged.Thresholds.OutdatedDays == nil || *merged.Thresholds.OutdatedDays != 365 {
		t.Error("Thresholds.OutdatedDays should keep global value")
	}
	if merged.Thresholds.BrokenIssues == nil || *merged.Thresholds.BrokenIssues != 20 {
		t.Error("Thresholds.BrokenIssues should take local value")
	}
	if merged.Retry == nil || merged.Retry.MaxAttempts == nil || *merged.Retry.MaxAttempts != 3 {
		t.Error("Retry.MaxAttempts should keep global value")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.DefaultFormat != "table" {
		t.Errorf("DefaultFormat = %q, want table", cfg.DefaultFormat)
	}
	if cfg.Query != "stars:>100" {
		t.Errorf("Query = %q, want stars:>100", cfg.Query)
	}
	if cfg.MaxRepos != 100 || cfg.PageSize != 100 {
		t.Errorf("MaxRepos/PageSize = %d/%d, want 100/100", cfg.MaxRepos, cfg.PageSize)
	}
	if cfg.Token != "" {
		t.Error("Defaults() must never carry a token")
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("Defaults() does not validate: %v", err)
	}
}

func TestLocalConfigPath(t *testing.T) {
	if got := LocalConfigPath(); got != ".repohealth.yaml" {
		t.Errorf("LocalConfigPath() = %q, want .repohealth.yaml", got)
	}
}
