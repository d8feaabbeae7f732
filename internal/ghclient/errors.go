package ghclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v57/github"
)

// ErrRateLimited is returned when the GitHub API rate limit has been exceeded.
var ErrRateLimited = errors.New("rate limited")

// RateLimitError reports that the API refused a request until ResetAt.
// A zero ResetAt means the API did not supply a reset time.
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	if e.ResetAt.IsZero() {
		return "rate limited"
	}
	return fmt.Sprintf("rate limited until %s", e.ResetAt.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrRateLimited) work for callers that don't care
// about the reset time.
func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// FatalError wraps a failure that must never be retried: bad query syntax,
// authentication failure, or a malformed response.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err must not be retried.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// classify maps an error from a go-github call onto the retry taxonomy.
// Rate limits become *RateLimitError, non-retryable client errors become
// *FatalError, and everything else (network failures, 5xx) passes through
// unchanged as transient.
func classify(err error) error {
	if err == nil {
		return nil
	}

	// Already classified errors pass through unchanged.
	var fe *FatalError
	var rl *RateLimitError
	if errors.As(err, &fe) || errors.As(err, &rl) {
		return err
	}

	var rle *gh.RateLimitError
	if errors.As(err, &rle) {
		return &RateLimitError{ResetAt: rle.Rate.Reset.Time}
	}

	var arle *gh.AbuseRateLimitError
	if errors.As(err, &arle) {
		var resetAt time.Time
		if arle.RetryAfter != nil {
			resetAt = time.Now().Add(*arle.RetryAfter)
		}
		return &RateLimitError{ResetAt: resetAt}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		code := ghErr.Response.StatusCode
		if code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return &FatalError{Err: err}
		}
		return err
	}

	// A 2xx body that failed to decode is not worth retrying.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &FatalError{Err: fmt.Errorf("malformed response: %w", err)}
	}

	return err
}
