// Package report assembles classified repository records into the externally
// visible output shape.
package report

import (
	"sort"
	"time"

	"github.com/spiffcs/repohealth/internal/ghclient"
	"github.com/spiffcs/repohealth/internal/health"
)

// Record is the output shape for one classified repository. The derived
// booleans are recomputed from the raw snapshot on every assembly; they are
// never persisted independently of it.
type Record struct {
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	OpenIssues  int       `json:"open_issues"`
	LastPush    time.Time `json:"last_push"`
	CreatedAt   time.Time `json:"created_at"`
	IsOutdated  bool      `json:"is_outdated"`
	IsBroken    bool      `json:"is_broken"`
}

// Summary aggregates health counts across a report.
type Summary struct {
	Total    int `json:"total"`
	Outdated int `json:"outdated"`
	Broken   int `json:"broken"`
	Healthy  int `json:"healthy"`
}

// Assemble maps each raw record, paired with its classification, into the
// output shape. Input order is preserved and every fetched record appears in
// the output exactly once.
func Assemble(repos []ghclient.Repository, now time.Time, t health.Thresholds) []Record {
	records := make([]Record, 0, len(repos))
	for _, repo := range repos {
		flags := health.Classify(repo, now, t)
		records = append(records, Record{
			Name:        repo.FullName,
			URL:         repo.HTMLURL,
			Description: repo.Description,
			Stars:       repo.Stars,
			OpenIssues:  repo.OpenIssues,
			LastPush:    repo.PushedAt,
			CreatedAt:   repo.CreatedAt,
			IsOutdated:  flags.Outdated,
			IsBroken:    flags.Broken,
		})
	}
	return records
}

// SortByStars orders records by star count, highest first. Records with
// equal star counts keep their fetch order.
func SortByStars(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Stars > records[j].Stars
	})
}

// Summarize computes aggregate health counts for a report.
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch {
		case r.IsBroken:
			s.Broken++
		case r.IsOutdated:
			s.Outdated++
		default:
			s.Healthy++
		}
	}
	return s
}
