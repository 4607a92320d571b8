package ghclient

import (
	"context"

	"github.com/google/go-github/v66/github"

	"github.com/skillcatalog/indexer/internal/license"
)

// GetFileContent fetches and base64-decodes a single file's contents at ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	credential, _, err := c.acquire(ctx)
	if err != nil {
		return "", err
	}

	var content string
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	err = c.call(ctx, credential, func(rc *github.Client) (*github.Response, error) {
		fc, _, resp, getErr := rc.Repositories.GetContents(ctx, owner, repo, path, opts)
		if getErr != nil {
			return resp, getErr
		}
		decoded, decodeErr := fc.GetContent()
		if decodeErr != nil {
			return resp, decodeErr
		}
		content = decoded
		return resp, nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// DetectedLicense is the result of probing a repository's license file.
type DetectedLicense struct {
	SPDXID   string
	FileName string
}

// DetectLicense tries each candidate license file name in turn and runs
// the first one found through the SPDX pattern detector.
func (c *Client) DetectLicense(ctx context.Context, owner, repo, ref string) (*DetectedLicense, error) {
	for _, name := range license.FileNames() {
		content, err := c.GetFileContent(ctx, owner, repo, name, ref)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			continue
		}
		return &DetectedLicense{SPDXID: license.DetectType(content), FileName: name}, nil
	}
	return nil, nil
}
