package ghclient

import (
	"context"

	gh "github.com/google/go-github/v57/github"
)

// FetchPage executes a single page of a repository search through the retry
// controller and decodes the result envelope.
func (c *Client) FetchPage(ctx context.Context, query string, page, pageSize int) (*Page, error) {
	opts := &gh.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: pageSize,
		},
	}

	var result *gh.RepositoriesSearchResult
	var resp *gh.Response
	err := c.retry.Do(ctx, func() error {
		var err error
		result, resp, err = c.api.Search.Repositories(ctx, query, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &Page{
		Items:      make([]Repository, 0, len(result.Repositories)),
		TotalCount: result.GetTotal(),
		HasNext:    resp.NextPage != 0,
	}
	for _, repo := range result.Repositories {
		out.Items = append(out.Items, repoToRecord(repo))
	}
	return out, nil
}

// repoToRecord converts a search result repository to the raw record shape.
// Timestamps are normalized to UTC.
func repoToRecord(r *gh.Repository) Repository {
	return Repository{
		FullName:    r.GetFullName(),
		HTMLURL:     r.GetHTMLURL(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		PushedAt:    r.GetPushedAt().Time.UTC(),
		CreatedAt:   r.GetCreatedAt().Time.UTC(),
	}
}
