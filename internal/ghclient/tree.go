package ghclient

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// TreeEntry is one file found by a recursive tree listing.
type TreeEntry struct {
	Path string
	SHA  string
}

// GetTree recursively lists a branch's files via the git-tree endpoint.
// Truncated reports whether the code host stopped short of the full tree
// (the repository exceeds the tree API's size ceiling); the caller should
// fall back to directory listing at well-known roots in that case.
func (c *Client) GetTree(ctx context.Context, owner, repo, branch string) (entries []TreeEntry, truncated bool, err error) {
	credential, _, err := c.acquire(ctx)
	if err != nil {
		return nil, false, err
	}

	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		tree, resp, treeErr := rc.Git.GetTree(ctx, owner, repo, branch, true)
		if treeErr != nil {
			return resp, treeErr
		}
		truncated = tree.GetTruncated()
		for _, e := range tree.Entries {
			if e.GetType() != "blob" {
				continue
			}
			entries = append(entries, TreeEntry{Path: e.GetPath(), SHA: e.GetSHA()})
		}
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return entries, truncated, nil
}

// ListDirectory lists the immediate contents of one directory, used as
// the fallback walker when GetTree reports a truncated response.
func (c *Client) ListDirectory(ctx context.Context, owner, repo, path, ref string) ([]TreeEntry, error) {
	credential, _, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}

	var entries []TreeEntry
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		_, dirContents, resp, getErr := rc.Repositories.GetContents(ctx, owner, repo, path, opts)
		if getErr != nil {
			return resp, getErr
		}
		for _, entry := range dirContents {
			entries = append(entries, TreeEntry{Path: entry.GetPath(), SHA: entry.GetSHA()})
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
