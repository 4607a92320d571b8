// Package tokenpool implements multi-credential rotation and rate-limit
// scheduling against the code host's REST API. It is the one piece of
// process-wide mutable state in the indexer; all access is serialized by
// a single mutex so tests can substitute a deterministic clock.
package tokenpool

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/skillcatalog/indexer/internal/log"
)

// secondaryLimitThreshold is the cutoff below which an advertised
// x-ratelimit-limit header is treated as a secondary/search quota rather
// than the primary 5000/hr budget, and therefore ignored.
const secondaryLimitThreshold = 100

// minExhaustedRemaining is the remaining-requests floor under which a
// credential is considered exhausted and excluded from selection.
const minExhaustedRemaining = 2

// codeSearchMinGap is the forced spacing between code-search calls,
// enforced regardless of what the rate-limit headers report.
const codeSearchMinGap = 7 * time.Second

const (
	minAbuseSleep     = 10 * time.Second
	defaultAbuseSleep = 60 * time.Second
	primaryLimitSleep = 60 * time.Second
)

// TokenInfo is the in-memory state tracked for one credential.
type TokenInfo struct {
	// ID is a stable, random identifier for this credential's slot,
	// safe to put in logs where the credential itself must not appear.
	ID          string
	Credential  string
	Name        string
	Remaining   int
	Limit       int
	ResetAt     time.Time
	LastUsedAt  time.Time
	IsExhausted bool

	// limiter smooths call pacing within the hour between header-derived
	// quota refreshes, independent of the remaining/reset bookkeeping above.
	limiter *rate.Limiter
}

func (t TokenInfo) String() string {
	return fmt.Sprintf("%s(remaining=%d/%d reset=%s)", t.Name, t.Remaining, t.Limit, t.ResetAt.Format(time.RFC3339))
}

// Pool rotates across a set of credentials, tracking their primary quota
// and the separate code-search pacing requirement.
type Pool struct {
	mu    sync.Mutex
	infos []*TokenInfo

	lastCodeSearch time.Time

	requestCount int

	sleep func(context.Context, time.Duration) error
}

// New builds a pool from credentials paired with optional display names.
// If names is shorter than credentials, remaining entries are labeled
// "token-N". A newly constructed credential starts with a full, unknown
// budget so it is always eligible until its first real response.
func New(credentials []string, names []string) *Pool {
	infos := make([]*TokenInfo, 0, len(credentials))
	for i, cred := range credentials {
		name := fmt.Sprintf("token-%d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		infos = append(infos, &TokenInfo{
			ID:         uuid.NewString(),
			Credential: cred,
			Name:       name,
			Remaining:  5000,
			Limit:      5000,
			ResetAt:    time.Now().Add(time.Hour),
			limiter:    rate.NewLimiter(rate.Every(time.Hour/5000), 1),
		})
	}
	return &Pool{infos: infos, sleep: ctxSleep}
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Len reports the number of pooled credentials.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.infos)
}

// GetBestCredential returns the credential with the greatest remaining
// quota among non-exhausted entries. Ties favor the one least recently
// used, which spreads load evenly. Returns false if the pool is empty.
func (p *Pool) GetBestCredential() (TokenInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.getBestCredentialLocked()
}

func (p *Pool) getBestCredentialLocked() (TokenInfo, bool) {
	if len(p.infos) == 0 {
		return TokenInfo{}, false
	}
	var best *TokenInfo
	for _, info := range p.infos {
		if info.IsExhausted {
			continue
		}
		if best == nil ||
			info.Remaining > best.Remaining ||
			(info.Remaining == best.Remaining && info.LastUsedAt.Before(best.LastUsedAt)) {
			best = info
		}
	}
	if best == nil {
		return TokenInfo{}, false
	}
	return *best, true
}

// UpdateFromHeaders parses x-ratelimit-{limit,remaining,reset} from an
// API response and updates the matching credential's state. Per spec,
// headers whose advertised limit is below secondaryLimitThreshold belong
// to a secondary (search) quota reported under the same header names;
// writing them into primary state would corrupt scheduling, so they are
// ignored entirely — remaining/limit/reset are left untouched.
func (p *Pool) UpdateFromHeaders(credential string, headers http.Header) {
	limit, hasLimit := parseIntHeader(headers, "x-ratelimit-limit")
	if !hasLimit || limit < secondaryLimitThreshold {
		return
	}
	remaining, _ := parseIntHeader(headers, "x-ratelimit-remaining")
	resetEpoch, hasReset := parseIntHeader(headers, "x-ratelimit-reset")

	p.mu.Lock()
	defer p.mu.Unlock()
	info := p.findLocked(credential)
	if info == nil {
		return
	}
	info.Limit = limit
	info.Remaining = remaining
	if hasReset {
		info.ResetAt = time.Unix(int64(resetEpoch), 0)
	}
	info.LastUsedAt = time.Now()
	info.IsExhausted = remaining < minExhaustedRemaining
	if info.IsExhausted {
		log.Warnf("tokenpool: credential %s rate limit low: %d/%d remaining, resets %s", info.ID, remaining, limit, info.ResetAt.Format(time.RFC3339))
	}
}

func parseIntHeader(headers http.Header, key string) (int, bool) {
	v := headers.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *Pool) findLocked(credential string) *TokenInfo {
	for _, info := range p.infos {
		if info.Credential == credential {
			return info
		}
	}
	return nil
}

// MarkExhausted forces a credential out of rotation until its reset time.
func (p *Pool) MarkExhausted(credential string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if info := p.findLocked(credential); info != nil {
		info.IsExhausted = true
	}
}

// CheckAndRotate returns the best available credential, sleeping first if
// every credential in the pool is currently exhausted. On wake it treats
// all credentials as eligible again (the caller's next real response will
// re-assert exhaustion via UpdateFromHeaders if still warranted).
func (p *Pool) CheckAndRotate(ctx context.Context) (TokenInfo, error) {
	p.mu.Lock()
	p.requestCount++
	best, ok := p.getBestCredentialLocked()
	if ok {
		p.mu.Unlock()
		return best, nil
	}
	if len(p.infos) == 0 {
		p.mu.Unlock()
		return TokenInfo{}, fmt.Errorf("tokenpool: no credentials configured")
	}

	earliest := p.infos[0].ResetAt
	for _, info := range p.infos[1:] {
		if info.ResetAt.Before(earliest) {
			earliest = info.ResetAt
		}
	}
	p.mu.Unlock()

	wait := time.Until(earliest) + time.Second
	if wait < 0 {
		wait = time.Second
	}
	if err := p.sleep(ctx, wait); err != nil {
		return TokenInfo{}, err
	}

	p.mu.Lock()
	for _, info := range p.infos {
		info.IsExhausted = false
	}
	best, ok = p.getBestCredentialLocked()
	p.mu.Unlock()
	if !ok {
		return TokenInfo{}, fmt.Errorf("tokenpool: no credentials available after reset wait")
	}
	return best, nil
}

// AwaitCodeSearchSlot blocks until at least codeSearchMinGap has elapsed
// since the previous code-search call, enforcing the self-imposed ~10
// req/min pacing independent of what rate-limit headers report.
func (p *Pool) AwaitCodeSearchSlot(ctx context.Context) error {
	p.mu.Lock()
	elapsed := time.Since(p.lastCodeSearch)
	var wait time.Duration
	if p.lastCodeSearch.IsZero() {
		wait = 0
	} else if elapsed < codeSearchMinGap {
		wait = codeSearchMinGap - elapsed
	}
	p.mu.Unlock()

	if wait > 0 {
		if err := p.sleep(ctx, wait); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.lastCodeSearch = time.Now()
	p.mu.Unlock()
	return nil
}

// AbuseSleepDuration derives the bounded sleep for a secondary/abuse-limit
// response from its retry-after header: minimum 10s, default 60s when the
// header is absent or unparseable.
func AbuseSleepDuration(headers http.Header) time.Duration {
	v := headers.Get("retry-after")
	if v == "" {
		return defaultAbuseSleep
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return defaultAbuseSleep
	}
	d := time.Duration(secs) * time.Second
	if d < minAbuseSleep {
		return minAbuseSleep
	}
	return d
}

// IsAbuseResponse reports whether a 403/429 response body indicates the
// code host's secondary rate limit or abuse-detection mechanism rather
// than the primary quota.
func IsAbuseResponse(statusCode int, body string) bool {
	if statusCode != http.StatusForbidden && statusCode != http.StatusTooManyRequests {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "secondary rate limit") || strings.Contains(lower, "abuse detection")
}

// IsBeyondResultLimit reports whether a 422 response indicates the code
// host's hard 1000-result pagination ceiling for a search segment.
func IsBeyondResultLimit(statusCode int, body string) bool {
	if statusCode != http.StatusUnprocessableEntity {
		return false
	}
	return strings.Contains(strings.ToLower(body), "first 1000 results")
}

// PrimaryLimitSleepDuration is the fixed sleep applied on a primary 403
// rate-limit response before rotating credential and retrying.
func PrimaryLimitSleepDuration() time.Duration { return primaryLimitSleep }

// Wait blocks until credential's own pacing limiter admits another call,
// smoothing bursts between the coarser header-derived quota refreshes.
// An unrecognized credential is not paced.
func (p *Pool) Wait(ctx context.Context, credential string) error {
	p.mu.Lock()
	info := p.findLocked(credential)
	p.mu.Unlock()
	if info == nil || info.limiter == nil {
		return nil
	}
	return info.limiter.Wait(ctx)
}

// Sleep exposes the pool's injectable sleeper so callers (e.g. the
// discovery engine handling a primary-limit or abuse response) reuse the
// same cancellable wait rather than a bare time.Sleep.
func (p *Pool) Sleep(ctx context.Context, d time.Duration) error {
	return p.sleep(ctx, d)
}

// RequestCount returns the number of credential acquisitions served since
// the pool was built or last reset.
func (p *Pool) RequestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requestCount
}

// ResetRequestCount zeroes the request counter, typically called after a
// score-batch pass logs it.
func (p *Pool) ResetRequestCount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requestCount = 0
}
