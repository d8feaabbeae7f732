package ghclient

import "time"

// Repository is the raw metadata snapshot for a single repository as returned
// by the search API. A Repository is immutable once fetched; re-scanning the
// same query may return different values because the remote state moves on.
type Repository struct {
	FullName    string
	HTMLURL     string
	Description string
	Stars       int
	OpenIssues  int
	PushedAt    time.Time
	CreatedAt   time.Time
}

// Page is one decoded page of repository search results.
type Page struct {
	Items      []Repository
	TotalCount int
	HasNext    bool
}
