package ghclient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v66/github"
)

// RepoMetadata is the subset of repository metadata the pipeline needs.
type RepoMetadata struct {
	Owner         string
	Repo          string
	Description   string
	Stars         int
	Forks         int
	DefaultBranch string
	Topics        []string
	License       string
	IsArchived    bool
	UpdatedAt     time.Time
	PushedAt      time.Time
}

// GetRepository fetches repository metadata, including topics (persisted
// downstream so the quality scorer's popularity factor does not undercount
// repositories whose topics would otherwise be dropped on rescoring).
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*RepoMetadata, error) {
	cacheKey := fmt.Sprintf("%s/%s", owner, repo)
	c.cacheMu.Lock()
	if cached, ok := c.repoCache[cacheKey]; ok {
		c.cacheHits++
		c.cacheMu.Unlock()
		return cached, nil
	}
	c.cacheMisses++
	c.cacheMu.Unlock()

	credential, _, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}

	var meta *RepoMetadata
	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		r, resp, getErr := rc.Repositories.Get(ctx, owner, repo)
		if getErr != nil {
			return resp, getErr
		}
		license := ""
		if r.License != nil {
			license = r.License.GetSPDXID()
		}
		meta = &RepoMetadata{
			Owner:         owner,
			Repo:          repo,
			Description:   r.GetDescription(),
			Stars:         r.GetStargazersCount(),
			Forks:         r.GetForksCount(),
			DefaultBranch: r.GetDefaultBranch(),
			Topics:        r.Topics,
			License:       license,
			IsArchived:    r.GetArchived(),
			UpdatedAt:     r.GetUpdatedAt().Time,
			PushedAt:      r.GetPushedAt().Time,
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.repoCache[cacheKey] = meta
	c.cacheMu.Unlock()
	return meta, nil
}
