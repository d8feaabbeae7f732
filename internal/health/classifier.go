// Package health classifies repository metadata as healthy, outdated, or
// potentially broken using fixed day/issue thresholds.
package health

import (
	"time"

	"github.com/spiffcs/repohealth/internal/ghclient"
)

// Default thresholds.
const (
	DefaultOutdatedDays = 365
	DefaultBrokenDays   = 180
	DefaultBrokenIssues = 10
)

// Thresholds holds the classification cutoffs.
type Thresholds struct {
	// OutdatedDays marks a repository outdated when its last push is
	// strictly older than this many days.
	OutdatedDays int

	// BrokenDays is the inactivity window for the broken check.
	BrokenDays int

	// BrokenIssues is the open-issue count the broken check requires the
	// repository to exceed.
	BrokenIssues int
}

// Default returns the standard thresholds.
func Default() Thresholds {
	return Thresholds{
		OutdatedDays: DefaultOutdatedDays,
		BrokenDays:   DefaultBrokenDays,
		BrokenIssues: DefaultBrokenIssues,
	}
}

// Flags are the derived health booleans for a single repository.
type Flags struct {
	Outdated bool
	Broken   bool
}

// Classify maps a repository's raw fields to health flags. It is a pure
// function of its inputs: the caller captures now once per scan and reuses it
// for every record so all records are classified against the same instant.
//
// A repository is broken only when BOTH conditions hold: the open-issue count
// exceeds the threshold AND the last push is older than the broken window.
func Classify(repo ghclient.Repository, now time.Time, t Thresholds) Flags {
	sincePush := now.Sub(repo.PushedAt)
	return Flags{
		Outdated: sincePush > days(t.OutdatedDays),
		Broken:   repo.OpenIssues > t.BrokenIssues && sincePush > days(t.BrokenDays),
	}
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
