package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/repohealth/internal/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// searchRequestsPerSecond paces outgoing calls below the search API
	// limit of 30 requests per minute for authenticated callers.
	searchRequestsPerSecond = 0.5

	// rateLimitLowWatermark is the remaining-quota threshold below which
	// warnings are logged.
	rateLimitLowWatermark = 100
)

// pacingTransport wraps an http.RoundTripper with a proactive token bucket
// and observes the X-RateLimit-* headers on every response.
type pacingTransport struct {
	base  http.RoundTripper
	pacer *rate.Limiter
}

func (t *pacingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.pacer.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && remaining <= rateLimitLowWatermark && limit > 0 {
		log.Debug("rate limit low",
			"remaining", remaining,
			"limit", limit,
			"resets_at", resetAt.Format(time.RFC3339))
	}

	return resp, nil
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

// Client wraps the GitHub API client.
type Client struct {
	api   *gh.Client
	retry *Retryer
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	retryPolicy RetryPolicy
	baseURL     string
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *clientOptions) {
		o.retryPolicy = policy
	}
}

// WithBaseURL points the client at a different API endpoint. Used for
// GitHub Enterprise installs and tests. The URL must end with a slash.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) {
		o.baseURL = u
	}
}

// NewClient creates a new GitHub client using a personal access token.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Set the GITHUB_TOKEN environment variable")
	}

	options := clientOptions{
		retryPolicy: DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	// Pace requests before they leave the process.
	tc.Transport = &pacingTransport{
		base:  tc.Transport,
		pacer: rate.NewLimiter(rate.Limit(searchRequestsPerSecond), 1),
	}

	client := gh.NewClient(tc)
	if options.baseURL != "" {
		parsed, err := url.Parse(options.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", options.baseURL, err)
		}
		client.BaseURL = parsed
	}

	return &Client{
		api:   client,
		retry: NewRetryer(options.retryPolicy),
		token: token,
	}, nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.api.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}
