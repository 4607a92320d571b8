package ghclient

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// CodeResult is one hit from a code-search query.
type CodeResult struct {
	Owner string
	Repo  string
	Path  string
	SHA   string
}

// SearchCode runs one page of a code-search query, enforcing the 7s
// inter-call pacing mandated by the code host's ~10 req/min code-search
// quota, independent of what rate-limit headers report.
func (c *Client) SearchCode(ctx context.Context, query string, page int) (results []CodeResult, hasNext bool, err error) {
	if err := c.pool.AwaitCodeSearchSlot(ctx); err != nil {
		return nil, false, err
	}

	credential, _, err := c.acquire(ctx)
	if err != nil {
		return nil, false, err
	}

	opts := &github.SearchOptions{
		Sort:  "indexed",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: 100,
			Page:    page,
		},
	}

	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		out, resp, searchErr := rc.Search.Code(ctx, query, opts)
		if searchErr != nil {
			return resp, searchErr
		}
		for _, item := range out.CodeResults {
			results = append(results, CodeResult{
				Owner: item.GetRepository().GetOwner().GetLogin(),
				Repo:  item.GetRepository().GetName(),
				Path:  item.GetPath(),
				SHA:   item.GetSHA(),
			})
		}
		hasNext = resp.NextPage != 0
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return results, hasNext, nil
}

// RepoResult is one hit from a repository-search query.
type RepoResult struct {
	Owner         string
	Repo          string
	Description   string
	Stars         int
	Topics        []string
	DefaultBranch string
	IsArchived    bool
}

// SearchRepositories runs one page of a repository-search query (used by
// the topic/description strategy and the popular-repo star-range sweep).
func (c *Client) SearchRepositories(ctx context.Context, query string, page int) (results []RepoResult, hasNext bool, err error) {
	credential, _, err := c.acquire(ctx)
	if err != nil {
		return nil, false, err
	}

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: 100,
			Page:    page,
		},
	}

	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		out, resp, searchErr := rc.Search.Repositories(ctx, query, opts)
		if searchErr != nil {
			return resp, searchErr
		}
		for _, repo := range out.Repositories {
			results = append(results, RepoResult{
				Owner:         repo.GetOwner().GetLogin(),
				Repo:          repo.GetName(),
				Description:   repo.GetDescription(),
				Stars:         repo.GetStargazersCount(),
				Topics:        repo.Topics,
				DefaultBranch: repo.GetDefaultBranch(),
				IsArchived:    repo.GetArchived(),
			})
		}
		hasNext = resp.NextPage != 0
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return results, hasNext, nil
}

// CommitResult is one hit from a commit-search query.
type CommitResult struct {
	Owner     string
	Repo      string
	CommitSHA string
}

// SearchCommits runs one page of a commit-search query (used by the
// recent-commit sweep strategy to find repositories with fresh activity
// touching instruction files).
func (c *Client) SearchCommits(ctx context.Context, query string, page int) (results []CommitResult, hasNext bool, err error) {
	credential, _, err := c.acquire(ctx)
	if err != nil {
		return nil, false, err
	}

	opts := &github.SearchOptions{
		Sort:  "committer-date",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: 100,
			Page:    page,
		},
	}

	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		out, resp, searchErr := rc.Search.Commits(ctx, query, opts)
		if searchErr != nil {
			return resp, searchErr
		}
		for _, item := range out.Commits {
			results = append(results, CommitResult{
				Owner:     item.GetRepository().GetOwner().GetLogin(),
				Repo:      item.GetRepository().GetName(),
				CommitSHA: item.GetSHA(),
			})
		}
		hasNext = resp.NextPage != 0
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return results, hasNext, nil
}
