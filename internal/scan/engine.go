// Package scan drives paginated repository searches until the requested
// record count is reached or the result set is exhausted.
package scan

import (
	"context"

	"github.com/spiffcs/repohealth/internal/ghclient"
	"github.com/spiffcs/repohealth/internal/log"
)

// DefaultPageSize is the search API maximum page size.
const DefaultPageSize = 100

// PageFetcher fetches one page of repository search results.
// This interface enables mocking the API client in unit tests.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page, pageSize int) (*ghclient.Page, error)
}

// Ensure the GitHub client implements PageFetcher.
var _ PageFetcher = (*ghclient.Client)(nil)

// Request describes a single scan. It is constructed once per invocation and
// never mutated mid-scan.
type Request struct {
	Query      string
	MaxRecords int
	PageSize   int
}

// Result carries the records collected by a scan. Err is non-nil when the
// scan terminated early; Repos then holds everything collected before the
// failure rather than being discarded.
type Result struct {
	Repos      []ghclient.Repository
	TotalCount int
	Err        error
}

// Partial reports whether the scan terminated before completing.
func (r *Result) Partial() bool { return r.Err != nil }

// Engine performs a single sequential scan. The page index and running
// collected count are owned exclusively by the engine for the scan's
// duration; no requests are issued concurrently.
type Engine struct {
	fetcher PageFetcher
}

// NewEngine creates a scan engine on top of a page fetcher.
func NewEngine(fetcher PageFetcher) *Engine {
	return &Engine{fetcher: fetcher}
}

// Scan collects up to req.MaxRecords repositories matching req.Query.
// Each record is fetched at most once; the final page is truncated so the
// result never exceeds the requested maximum.
func (e *Engine) Scan(ctx context.Context, req Request) *Result {
	if req.PageSize <= 0 || req.PageSize > DefaultPageSize {
		req.PageSize = DefaultPageSize
	}

	res := &Result{}
	page := 1

	for len(res.Repos) < req.MaxRecords {
		p, err := e.fetcher.FetchPage(ctx, req.Query, page, req.PageSize)
		if err != nil {
			// Keep what was already collected; the caller decides whether
			// a partial report is acceptable output.
			res.Err = err
			log.ProgressClear()
			return res
		}
		res.TotalCount = p.TotalCount

		items := p.Items
		if remaining := req.MaxRecords - len(res.Repos); len(items) > remaining {
			items = items[:remaining]
		}
		res.Repos = append(res.Repos, items...)

		log.Progress("fetched %d/%d repositories (page %d)", len(res.Repos), min(req.MaxRecords, p.TotalCount), page)
		log.Debug("fetched page",
			"page", page,
			"items", len(p.Items),
			"collected", len(res.Repos),
			"total", p.TotalCount)

		if !p.HasNext || len(p.Items) == 0 {
			break
		}
		page++
	}

	log.ProgressDone()
	return res
}
