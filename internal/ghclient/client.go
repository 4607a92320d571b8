// Package ghclient wraps the code host's REST API behind the token pool,
// translating its rate-limit, abuse, and pagination-ceiling responses
// into retry/backoff/rotation decisions instead of raw errors. It
// generalizes a single-credential REST client to a rotating pool of
// credentials.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/skillcatalog/indexer/internal/tokenpool"
)

// DefaultCallTimeout is applied to ordinary API calls.
const DefaultCallTimeout = 30 * time.Second

// BulkCallTimeout is applied to recursive tree fetches.
const BulkCallTimeout = 60 * time.Second

// Client issues code-host API calls using the best available credential
// from a shared Pool, rotating and retrying per the documented error
// taxonomy. It holds no credential lease across calls: the pool is
// consulted fresh each time.
type Client struct {
	pool    *tokenpool.Pool
	clients map[string]*github.Client

	cacheMu     sync.Mutex
	repoCache   map[string]*RepoMetadata
	cacheHits   int
	cacheMisses int
}

// New builds a Client and one *github.Client per pooled credential.
func New(pool *tokenpool.Pool, credentials []string) *Client {
	clients := make(map[string]*github.Client, len(credentials))
	for _, cred := range credentials {
		clients[cred] = newRESTClient(cred)
	}
	if len(credentials) == 0 {
		clients[""] = newRESTClient("")
	}
	return &Client{pool: pool, clients: clients, repoCache: make(map[string]*RepoMetadata)}
}

// Stats returns the request count served by the credential pool alongside
// this client's repository-metadata cache hit/miss counts.
func (c *Client) Stats() (requests, cacheHits, cacheMisses int) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	return c.pool.RequestCount(), c.cacheHits, c.cacheMisses
}

// ResetStats zeroes both the pool's request counter and this client's
// cache counters.
func (c *Client) ResetStats() {
	c.pool.ResetRequestCount()
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cacheHits = 0
	c.cacheMisses = 0
}

func newRESTClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(context.Background(), ts))
}

func (c *Client) restFor(credential string) *github.Client {
	if rc, ok := c.clients[credential]; ok {
		return rc
	}
	return github.NewClient(nil)
}

// acquire picks a credential, sleeping if the whole pool is exhausted or
// if the credential's own pacing limiter hasn't yet admitted another call.
func (c *Client) acquire(ctx context.Context) (string, *github.Client, error) {
	info, err := c.pool.CheckAndRotate(ctx)
	if err != nil {
		return "", nil, err
	}
	if err := c.pool.Wait(ctx, info.Credential); err != nil {
		return "", nil, err
	}
	return info.Credential, c.restFor(info.Credential), nil
}

// call wraps one API round-trip with the full failure-semantics policy:
// primary rate limit (60s sleep + retry once), secondary/abuse limit
// (retry-after-derived sleep + retry same page), 404 → sentinel error the
// caller can check with IsNotFound, 422 beyond-1000 → sentinel error the
// caller treats as end-of-pagination rather than failure.
func (c *Client) call(ctx context.Context, credential string, fn func(*github.Client) (*github.Response, error)) error {
	rc := c.restFor(credential)
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := fn(rc)
		if resp != nil {
			c.pool.UpdateFromHeaders(credential, resp.Response.Header)
		}
		if err == nil {
			return nil
		}

		status, body := statusAndBody(err, resp)
		switch {
		case status == http.StatusNotFound:
			return ErrNotFound
		case tokenpool.IsBeyondResultLimit(status, body):
			return ErrBeyondResultLimit
		case tokenpool.IsAbuseResponse(status, body):
			wait := tokenpool.AbuseSleepDuration(headerOf(resp))
			if sleepErr := c.pool.Sleep(ctx, wait); sleepErr != nil {
				return sleepErr
			}
			continue
		case status == http.StatusForbidden:
			c.pool.MarkExhausted(credential)
			if sleepErr := c.pool.Sleep(ctx, tokenpool.PrimaryLimitSleepDuration()); sleepErr != nil {
				return sleepErr
			}
			return &RetryCredentialError{Err: err}
		default:
			return err
		}
	}
	return fmt.Errorf("ghclient: exhausted retries")
}

func headerOf(resp *github.Response) http.Header {
	if resp == nil || resp.Response == nil {
		return http.Header{}
	}
	return resp.Response.Header
}

func statusAndBody(err error, resp *github.Response) (int, string) {
	if resp != nil && resp.Response != nil {
		return resp.Response.StatusCode, err.Error()
	}
	if rlErr, ok := err.(*github.RateLimitError); ok {
		return http.StatusForbidden, rlErr.Error()
	}
	if abErr, ok := err.(*github.AbuseRateLimitError); ok {
		return http.StatusForbidden, abErr.Error()
	}
	return 0, err.Error()
}

// Sentinel errors the caller (discovery/fetcher) branches on.
var (
	ErrNotFound          = fmt.Errorf("ghclient: not found")
	ErrBeyondResultLimit = fmt.Errorf("ghclient: beyond first 1000 results")
)

// RetryCredentialError signals the caller should rotate credential and
// retry the same logical operation (a fresh acquire() will pick a
// different one since this credential was just marked exhausted).
type RetryCredentialError struct{ Err error }

func (e *RetryCredentialError) Error() string { return "ghclient: retry with new credential: " + e.Err.Error() }
func (e *RetryCredentialError) Unwrap() error  { return e.Err }

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool { return err == ErrNotFound }

// IsBeyondResultLimit reports whether err is (or wraps) ErrBeyondResultLimit.
func IsBeyondResultLimit(err error) bool { return err == ErrBeyondResultLimit }

func trimSlash(s string) string { return strings.TrimPrefix(strings.TrimSuffix(s, "/"), "/") }
